package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/imageio"
)

type removeBgOpts struct {
	output string
	square bool
}

func (c *CLI) removeBgCommand() *cobra.Command {
	var opts removeBgOpts

	cmd := &cobra.Command{
		Use:   "remove-bg <image>",
		Short: "Remove the background with the configured service",
		Long: `Send the image to the background-removal service set in the config file
([background_removal] endpoint) and write the processed image. A failed call
is reported and not retried; results are cached unless --no-cache is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRemoveBg(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <image>_nobg.png)")
	cmd.Flags().BoolVar(&opts.square, "square", false, "fit the result into the output square")
	return cmd
}

func (c *CLI) runRemoveBg(cmd *cobra.Command, input string, opts *removeBgOpts) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if cfg.BackgroundRemoval.Endpoint == "" {
		return errors.New(errors.ErrCodeInvalidConfig,
			"no background removal endpoint; set [background_removal] endpoint in %s", c.configFile())
	}

	e, err := c.loadEditor(ctx, input)
	if err != nil {
		return err
	}
	defer e.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Removing background...")
	spinner.Start()
	if err := e.RemoveBackground(ctx); err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.Stop()

	var data []byte
	if opts.square {
		data, err = e.Confirm(ctx)
	} else {
		data, err = imageio.EncodePNG(e.Image())
	}
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, "_nobg", formatPNG)
	if err := writeOutput(path, data); err != nil {
		return err
	}
	s := e.State()
	printSuccess(c.out, "Background removed (%dx%d)", s.Width, s.Height)
	printFile(c.out, path)
	return nil
}
