// seqtab converts scientific file formats into record streams.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "seqtab",
		Short: "Stream records out of scientific file formats",
		Long: `seqtab decodes bioinformatics and instrument files (FASTA, FASTQ,
SAM, BAM, Inficon Hapsite) into uniform record streams, sniffing the
format and unwrapping gzip/bzip2/xz/zstd transparently.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSniffCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newFormatsCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
