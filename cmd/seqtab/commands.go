package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/seqtab/seqtab/pkg/compression"
	"github.com/seqtab/seqtab/pkg/config"
	"github.com/seqtab/seqtab/pkg/filetype"
	"github.com/seqtab/seqtab/pkg/parsers"
	"github.com/seqtab/seqtab/pkg/reader"
	"github.com/seqtab/seqtab/pkg/sources"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func printField(label, value string) {
	fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
}

func newSniffCmd() *cobra.Command {
	var noDecompress bool
	cmd := &cobra.Command{
		Use:   "sniff <input>",
		Short: "Classify an input by its magic bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sources.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			stream, err := src.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer stream.Close()

			var ftype, comp filetype.FileType
			if noDecompress {
				_, ftype, err = compression.Sniff(stream)
			} else {
				var rc io.ReadCloser
				rc, ftype, comp, err = compression.Decompress(stream)
				if err == nil {
					defer rc.Close()
				}
			}
			if err != nil {
				return err
			}

			printField("Input", src.Location())
			if src.Size() >= 0 {
				printField("Size", fmt.Sprintf("%d bytes", src.Size()))
			}
			if comp != filetype.Unknown {
				printField("Compression", comp.String())
			}
			printField("Type", ftype.String())
			if name := ftype.ParserName(); name != "" {
				printField("Parser", name)
			} else {
				printField("Parser", dimStyle.Render("none (detection only)"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDecompress, "no-decompress", false, "classify without unwrapping compression")
	return cmd
}

func newDumpCmd() *cobra.Command {
	var (
		format       string
		noDecompress bool
		output       string
	)
	cmd := &cobra.Command{
		Use:   "dump <input>",
		Short: "Decode an input and write its records as TSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, profilePath, err := config.Find(args[0])
			if err != nil {
				return err
			}
			if profilePath != "" {
				log.Debug().Str("profile", profilePath).Msg("applying profile")
			}
			if format == "" {
				format = profile.Format
			}
			noDecompress = noDecompress || profile.NoDecompress
			if output == "" {
				output = profile.Output
			}

			src, err := sources.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			stream, err := src.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer stream.Close()

			var in io.Reader = stream
			if size := src.Size(); size > 0 {
				bar := progressbar.DefaultBytes(size, "decoding")
				in = io.TeeReader(stream, bar)
			}

			r, err := reader.New(in, &reader.Options{
				Parser:               format,
				DisableDecompression: noDecompress,
			})
			if err != nil && format == "" {
				// content sniffing came up empty; fall back to the
				// parser suggested by the file extension, if any
				if name := hintedParser(src); name != "" {
					log.Debug().Str("parser", name).Msg("retrying with extension hint")
					retry, rerr := src.Open(cmd.Context())
					if rerr != nil {
						return err
					}
					defer retry.Close()
					r, err = reader.New(retry, &reader.Options{
						Parser:               name,
						DisableDecompression: noDecompress,
					})
				}
			}
			if err != nil {
				return err
			}
			defer r.Close()
			log.Debug().
				Stringer("type", r.FileType()).
				Stringer("compression", r.Compression()).
				Msg("input classified")

			dst := os.Stdout
			if output != "" && output != "-" {
				f, cerr := os.Create(output)
				if cerr != nil {
					return cerr
				}
				defer f.Close()
				dst = f
			}
			w := bufio.NewWriter(dst)
			defer w.Flush()

			fmt.Fprintln(w, strings.Join(r.Headers(), "\t"))
			count := 0
			for {
				rec, err := r.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				fields := rec.Fields()
				for i, f := range fields {
					if i > 0 {
						if err := w.WriteByte('\t'); err != nil {
							return err
						}
					}
					if _, err := w.WriteString(formatField(f)); err != nil {
						return err
					}
				}
				if err := w.WriteByte('\n'); err != nil {
					return err
				}
				count++
			}
			log.Info().Int("records", count).Msg("done")
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "force a parser by name instead of sniffing")
	cmd.Flags().BoolVar(&noDecompress, "no-decompress", false, "do not unwrap compressed input")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write records to a file instead of stdout")
	return cmd
}

// hintedParser returns the registry name suggested by a source's file
// extension, or "" when the source has no usable hint.
func hintedParser(src sources.Source) string {
	h, ok := src.(interface{ Hint() []filetype.FileType })
	if !ok {
		return ""
	}
	for _, t := range h.Hint() {
		if name := t.ParserName(); name != "" {
			return name
		}
	}
	return ""
}

func formatField(v any) string {
	switch f := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(f)
	case string:
		return f
	default:
		return fmt.Sprint(f)
	}
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the available decoders and their columns",
		RunE: func(*cobra.Command, []string) error {
			for _, name := range parsers.Names() {
				dec, _, err := parsers.Get(name)
				if err != nil {
					return err
				}
				ftype := filetype.FromParserName(name)
				fmt.Println(labelStyle.Render(name) +
					valueStyle.Render(ftype.String()) +
					dimStyle.Render("  ["+strings.Join(dec.Headers(), ", ")+"]"))
			}
			return nil
		},
	}
}
