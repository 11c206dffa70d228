// filmtag applies film photography logbook metadata to scanned images.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/skagerrak/filmtag/pkg/meta"
	"github.com/skagerrak/filmtag/pkg/negative"
	"github.com/skagerrak/filmtag/pkg/rolls"
)

var (
	filmRollsPath string
	lightmePath   string
)

func main() {
	klog.InitFlags(nil)

	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "filmtag: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filmtag",
		Short: "Apply film photography logbook metadata to scanned images",
		Long: `filmtag reads the logbook export of an analog photography app (Film Rolls
or lightme) and writes the recorded camera, film, exposure, and author
metadata into the EXIF and XMP blocks of scanned images.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&filmRollsPath, "film-rolls", "r", "", "Film Rolls XML export to read rolls from")
	cmd.PersistentFlags().StringVarP(&lightmePath, "lightme", "l", "", "lightme JSON export to read rolls from")
	cmd.MarkFlagsMutuallyExclusive("film-rolls", "lightme")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmd.AddCommand(
		newListRollsCmd(),
		newListFramesCmd(),
		newTagCmd(),
		newApplyMetadataCmd(),
	)
	return cmd
}

// loadRolls reads all rolls from whichever logbook flag was given.
func loadRolls() ([]*rolls.Roll, error) {
	var path string
	var format rolls.Format
	switch {
	case filmRollsPath != "":
		path, format = filmRollsPath, rolls.FormatFilmRolls
	case lightmePath != "":
		path, format = lightmePath, rolls.FormatLightMe
	default:
		return nil, fmt.Errorf("either --film-rolls or --lightme is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rolls.ParseAll(format, f)
}

func findRoll(id string) (*rolls.Roll, error) {
	all, err := loadRolls()
	if err != nil {
		return nil, err
	}
	for _, roll := range all {
		if roll.ID == id {
			return roll, nil
		}
	}
	return nil, fmt.Errorf("Could not find film roll with ID `%s`", id)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func newListRollsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-rolls",
		Short: "List the film rolls recorded in the logbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := loadRolls()
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Frames", "Film", "Camera", "Loaded", "Unloaded"})
			for _, roll := range all {
				camera := ""
				if roll.Camera != nil {
					camera = roll.Camera.String()
				}
				table.Append([]string{
					roll.ID,
					fmt.Sprintf("%d", len(roll.Frames)),
					fmt.Sprintf("%s @ %s", roll.Film, roll.Speed),
					camera,
					formatDate(roll.Load),
					formatDate(roll.Unload),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newListFramesCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "list-frames",
		Short: "List the frames of one film roll",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roll, err := findRoll(id)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Lens", "Aperture", "Shutter", "Comp.", "Date", "Location", "Notes"})
			for i, frame := range roll.Frames {
				table.Append(frameRow(i+1, frame))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&id, "id", "i", "", "ID of the film roll to list")
	cmd.MarkFlagRequired("id") //nolint:errcheck // flag exists
	return cmd
}

// frameRow renders one table row. Frames never recorded in the logbook
// keep their position in the roll and render as a number-only row.
func frameRow(number int, frame *rolls.Frame) []string {
	row := []string{fmt.Sprintf("%d", number), "", "", "", "", "", "", ""}
	if frame == nil {
		return row
	}
	if frame.Lens != nil {
		row[1] = frame.Lens.String()
	}
	if frame.Aperture != nil {
		row[2] = frame.Aperture.String()
	}
	if frame.ShutterSpeed != nil {
		row[3] = frame.ShutterSpeed.String()
	}
	if frame.Compensation != nil {
		row[4] = frame.Compensation.String()
	}
	row[5] = frame.DateTime.Format("2006-01-02 15:04")
	row[6] = frame.Position.String()
	row[7] = frame.Note
	return row
}

func newTagCmd() *cobra.Command {
	var id, metadataPath string
	cmd := &cobra.Command{
		Use:   "tag IMAGE...",
		Short: "Write one roll's metadata into scanned images, in frame order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roll, err := findRoll(id)
			if err != nil {
				return err
			}
			var author *meta.Metadata
			if metadataPath != "" {
				if author, err = meta.Load(metadataPath); err != nil {
					return err
				}
			}
			results, err := negative.TagBatch(roll, args, author, time.Time{})
			if err != nil {
				return err
			}
			return report(cmd, results)
		},
	}
	cmd.Flags().StringVarP(&id, "id", "i", "", "ID of the film roll to apply")
	cmd.Flags().StringVarP(&metadataPath, "metadata", "m", "", "TOML file with author metadata to apply as well")
	cmd.MarkFlagRequired("id") //nolint:errcheck // flag exists
	return cmd
}

func newApplyMetadataCmd() *cobra.Command {
	var metadataPath, dateArg string
	cmd := &cobra.Command{
		Use:   "apply-metadata IMAGE...",
		Short: "Write author and license metadata into images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			author, err := meta.Load(metadataPath)
			if err != nil {
				return err
			}
			var date time.Time
			if dateArg != "" {
				if date, err = time.Parse("2006-01-02", dateArg); err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}
			return report(cmd, negative.AuthorBatch(args, author, date))
		},
	}
	cmd.Flags().StringVarP(&metadataPath, "metadata", "m", "", "TOML file with author metadata")
	cmd.Flags().StringVar(&dateArg, "date", "", "Copyright date (YYYY-MM-DD); defaults to each image's capture date")
	cmd.MarkFlagRequired("metadata") //nolint:errcheck // flag exists
	return cmd
}

// report prints per-image outcomes and fails the command if any image
// could not be written.
func report(cmd *cobra.Command, results []negative.Result) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s\n", r.Path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(results))
	}
	return nil
}
