package cmd

import (
	"fmt"
	"strings"

	"github.com/byxorna/shipwright/pkg/upload"
	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

var (
	uploadFlags = struct {
		Attach string
	}{}

	uploadCmd = &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image to the media library",
		Long: `Upload an image to the media library. With --attach section/id the image is
also added to that record and the record is saved.`,
		Example: "  shipwright upload ~/Pictures/hull.jpg --attach products/stella-32-sport",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var section, id string
			if uploadFlags.Attach != "" {
				var ok bool
				section, id, ok = strings.Cut(uploadFlags.Attach, "/")
				if !ok || section == "" || id == "" {
					return fmt.Errorf("--attach wants section/id, got %q", uploadFlags.Attach)
				}
			}

			path, err := homedir.Expand(args[0])
			if err != nil {
				return err
			}
			f, err := upload.FromPath(path)
			if err != nil {
				return err
			}

			b, err := backend()
			if err != nil {
				return err
			}
			s := upload.NewSession(b.Uploads, upload.WithMaxBytes(cfg.Upload.MaxBytes), upload.WithLogger(logger))
			defer s.Close()
			a, err := s.Upload(cmd.Context(), f)
			if err != nil {
				if m := s.Message(); m != "" {
					return fmt.Errorf("%s: %s", f.Name, m)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %s (%s", f.Name, humanize.IBytes(uint64(f.Size)))
			if a.Width > 0 {
				fmt.Fprintf(out, ", %d×%d", a.Width, a.Height)
			}
			fmt.Fprintf(out, ")\n%s\n", a.URL)

			if section != "" {
				h, err := b.Handle(section)
				if err != nil {
					return err
				}
				r, err := h.Attach(cmd.Context(), id, a.Image())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Attached to “%s”.\n", r.Label)
			}
			if b.Demo {
				fmt.Fprintln(out, "Demo data is not kept; nothing was stored.")
			}
			return nil
		},
	}
)

func init() {
	uploadCmd.Flags().StringVar(&uploadFlags.Attach, "attach", "", "add the image to this record, as section/id")
	root.AddCommand(uploadCmd)
}
