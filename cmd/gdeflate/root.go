package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/gpupack/gdeflate"
	"github.com/gpupack/gdeflate/config"
	"github.com/gpupack/gdeflate/internal/pipeline"
)

var (
	doCompress   bool
	doDecompress bool
	level        int
	workers      int
	libPath      string
	configPath   string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "gdeflate [flags] INPUT OUTPUT",
	Short: "Compress or decompress files with a GDeflate codec library",
	Long: `gdeflate moves whole files through a GDeflate codec shared library.

The codec produces GPU-decodable streams; this tool only drives the library,
it does not implement the bitstream itself.

Examples:
  # Compress at the default level
  gdeflate -c texture.bin texture.gdef

  # Compress for best ratio
  gdeflate -c --level 12 texture.bin texture.gdef

  # Decompress with 8 codec workers
  gdeflate -d --workers 8 texture.gdef texture.bin`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	// Windows builds of the codec ship as a DLL, and users coming from
	// there spell the flag that way. Both names land on the same flag.
	rootCmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "dll" {
			name = "lib"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.Flags().BoolVarP(&doCompress, "compress", "c", false, "compress the input file")
	rootCmd.Flags().BoolVarP(&doDecompress, "decompress", "d", false, "decompress the input file")
	rootCmd.Flags().IntVarP(&level, "level", "l", 9, "compression level (1=fastest, 9=default, 12=best)")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 1, "number of codec workers for decompression")
	rootCmd.Flags().StringVar(&libPath, "lib", "libgdeflate.so", "path to the codec shared library (--dll is accepted too)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML defaults file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.MarkFlagsOneRequired("compress", "decompress")
	rootCmd.MarkFlagsMutuallyExclusive("compress", "decompress")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Config supplies defaults; explicit flags win.
	if !cmd.Flags().Changed("level") {
		level = cfg.Level
	}
	if !cmd.Flags().Changed("workers") {
		workers = cfg.Workers
	}
	if !cmd.Flags().Changed("lib") {
		libPath = cfg.Library
	}

	switch level {
	case 1, 9, 12:
	default:
		return fmt.Errorf("invalid level %d: must be 1, 9 or 12", level)
	}

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = dev
		defer logger.Sync()
	}

	libOpt, err := gdeflate.WithLibrary(libPath)
	if err != nil {
		return err
	}
	codec, err := gdeflate.New(libOpt, gdeflate.WithLogger(logger.Named("gdeflate")))
	if err != nil {
		return err
	}
	defer codec.Close()

	p := pipeline.New(codec, logger.Named("pipeline"))
	input, output := args[0], args[1]

	if doCompress {
		report, err := p.CompressFile(input, output, gdeflate.CompressionLevel(level))
		if err != nil {
			return err
		}
		fmt.Printf("Compressed %s\n", report.InputPath)
		fmt.Printf("Original size: %d bytes\n", report.RawBytes)
		fmt.Printf("Compressed size: %d bytes\n", report.CompressedBytes)
		fmt.Printf("Compression ratio: %.1f%%\n", report.Ratio())
		return nil
	}

	report, err := p.DecompressFile(input, output, workers)
	if err != nil {
		return err
	}
	fmt.Printf("Decompressed %s\n", report.InputPath)
	fmt.Printf("Compressed size: %d bytes\n", report.CompressedBytes)
	fmt.Printf("Decompressed size: %d bytes\n", report.RawBytes)
	fmt.Printf("Compression ratio was: %.1f%%\n", report.Ratio())
	return nil
}
