package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Show configured upload profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfiles,
	}
}

type profileView struct {
	Name         string   `json:"name"`
	UploadDir    string   `json:"uploadDir"`
	UploadURL    string   `json:"uploadUrl"`
	TargetDir    string   `json:"targetDir"`
	MaxFileSize  int64    `json:"maxFileSize"`
	NamingPolicy string   `json:"namingPolicy"`
	Versions     []string `json:"versions"`
}

func runProfiles(cmd *cobra.Command, args []string) error {
	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		v := profileView{
			Name:         p.Name,
			UploadDir:    p.UploadDir,
			UploadURL:    p.UploadURL,
			TargetDir:    p.TargetDir,
			MaxFileSize:  p.MaxFileSize,
			NamingPolicy: string(p.NamingPolicy),
			Versions:     []string{},
		}
		for _, version := range p.ImageVersions {
			v.Versions = append(v.Versions, version.Name+":"+version.Geometry())
		}
		views = append(views, v)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, views)
	}
	for _, v := range views {
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", v.Name, v.UploadDir, v.NamingPolicy, strings.Join(v.Versions, ","))
	}
	return nil
}
