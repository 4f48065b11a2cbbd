package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newUploadCmd creates the upload command, pushing a commit's history
// branch and opening its pull request (§4.6.13).
func newUploadCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:          "upload [commit-id]",
		Short:        "Push a commit's branch and open its pull request",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			if all {
				uploaded, err := e.UploadAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Uploaded %d commit(s)\n", len(uploaded))
				return nil
			}

			id := e.State().HeadID
			if len(args) == 1 {
				id = args[0]
			}
			c, err := e.Upload(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Uploaded %s\n", c.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Upload every commit in the graph not already uploaded")
	return cmd
}
