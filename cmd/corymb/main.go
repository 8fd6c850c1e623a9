// Command corymb computes digests and extendable output with the algorithms in the corymb library.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codahale/corymb"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "corymb",
	Short: "Compute cryptographic digests and extendable output",
	Long: `corymb computes digests with the MD5, SHA-1/2/3, BLAKE2, and BLAKE3 families,
including keyed hashing and seekable extendable-output streams.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if configPath != "" {
			viper.SetConfigFile(configPath)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			logrus.WithField("config", viper.ConfigFileUsed()).Debug("loaded config file")
		}
		return nil
	},
}

var sumCmd = &cobra.Command{
	Use:   "sum [files...]",
	Short: "Compute digests of files or standard input",
	RunE:  runSum,
}

var xofCmd = &cobra.Command{
	Use:   "xof [file]",
	Short: "Produce extendable output for a file or standard input",
	Long: `xof hashes its input with an extendable-output algorithm (shake128, shake256,
blake2xb, blake2xs, blake3) and writes output bytes to standard output. With
--offset, output starts mid-stream; seekable algorithms recompute only the
blocks spanning the requested range.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runXOF,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported algorithms",
	Run: func(cmd *cobra.Command, args []string) {
		for _, alg := range corymb.Algorithms() {
			fmt.Println(alg)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")

	sumCmd.Flags().StringP("algorithm", "a", "", "Hash algorithm (see 'corymb list')")
	sumCmd.Flags().String("key", "", "Key as a hex string (keyed-capable algorithms)")
	sumCmd.Flags().String("salt", "", "Salt as a hex string (BLAKE2b/BLAKE2s)")
	sumCmd.Flags().String("personal", "", "Personalization as a hex string (BLAKE2b/BLAKE2s)")
	sumCmd.Flags().Int("size", 0, "Digest size in bytes (variable-size algorithms)")

	xofCmd.Flags().StringP("algorithm", "a", "", "XOF algorithm (shake128, shake256, blake2xb, blake2xs, blake3)")
	xofCmd.Flags().String("key", "", "Key as a hex string")
	xofCmd.Flags().Int64("length", 32, "Number of output bytes to produce")
	xofCmd.Flags().Int64("offset", 0, "Output stream position to start from")
	xofCmd.Flags().Bool("hex", false, "Write output as hex instead of raw bytes")

	rootCmd.AddCommand(sumCmd, xofCmd, listCmd)

	viper.SetEnvPrefix("CORYMB")
	viper.AutomaticEnv()
	viper.SetDefault("algorithm", string(corymb.SHA256))

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.InfoLevel)
}

// algorithm resolves the algorithm from the flag, config file, or environment, in that order.
func algorithm(cmd *cobra.Command) corymb.Algorithm {
	if alg, _ := cmd.Flags().GetString("algorithm"); alg != "" {
		return corymb.Algorithm(alg)
	}
	return corymb.Algorithm(viper.GetString("algorithm"))
}

func hashOptions(cmd *cobra.Command) ([]corymb.Option, error) {
	var opts []corymb.Option
	for _, flag := range []string{"key", "salt", "personal"} {
		if cmd.Flags().Lookup(flag) == nil {
			continue
		}
		s, _ := cmd.Flags().GetString(flag)
		if s == "" {
			continue
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decoding --%s: %w", flag, err)
		}
		switch flag {
		case "key":
			opts = append(opts, corymb.WithKey(b))
		case "salt":
			opts = append(opts, corymb.WithSalt(b))
		case "personal":
			opts = append(opts, corymb.WithPersonal(b))
		}
	}
	if cmd.Flags().Lookup("size") != nil {
		if size, _ := cmd.Flags().GetInt("size"); size > 0 {
			opts = append(opts, corymb.WithSize(size))
		}
	}
	return opts, nil
}

func runSum(cmd *cobra.Command, args []string) error {
	alg := algorithm(cmd)
	opts, err := hashOptions(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		digest, err := sumFile(alg, opts, name)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", hex.EncodeToString(digest), name)
	}
	return nil
}

func sumFile(alg corymb.Algorithm, opts []corymb.Option, name string) ([]byte, error) {
	h, err := corymb.New(alg, opts...)
	if err != nil {
		return nil, err
	}

	in := io.Reader(os.Stdin)
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	start := time.Now()
	n, err := io.Copy(h, in)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", name, err)
	}
	logrus.WithFields(logrus.Fields{
		"algorithm": alg,
		"file":      name,
		"bytes":     n,
		"elapsed":   time.Since(start),
	}).Debug("hashed input")

	return h.Sum()
}

func runXOF(cmd *cobra.Command, args []string) error {
	alg := algorithm(cmd)
	opts, err := hashOptions(cmd)
	if err != nil {
		return err
	}
	length, _ := cmd.Flags().GetInt64("length")
	offset, _ := cmd.Flags().GetInt64("offset")
	asHex, _ := cmd.Flags().GetBool("hex")

	h, err := corymb.New(alg, opts...)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if _, err := io.Copy(h, in); err != nil {
		return fmt.Errorf("hashing input: %w", err)
	}

	x, err := h.XOF()
	if err != nil {
		return err
	}
	if offset > 0 {
		if _, err := x.Seek(offset, io.SeekStart); err != nil {
			return err
		}
		logrus.WithField("offset", offset).Debug("repositioned output stream")
	}

	out := io.Writer(os.Stdout)
	if asHex {
		enc := hex.NewEncoder(os.Stdout)
		defer fmt.Println()
		out = enc
	}
	if _, err := io.CopyN(out, x, length); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
