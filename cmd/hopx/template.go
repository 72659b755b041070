package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hopx-ai/hopx-go"
)

func templateCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tpl"},
		Short:   "Manage build templates",
	}
	cmd.AddCommand(templateLsCmd(flags))
	cmd.AddCommand(templateBuildCmd(flags))
	return cmd
}

func templateLsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}

			templates, err := client.Templates().List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBUILDS\tPUBLIC")
			for _, tpl := range templates {
				fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", tpl.TemplateID, tpl.Name, tpl.BuildCount, tpl.Public)
			}
			return w.Flush()
		},
	}
}

func templateBuildCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [hopx.toml]",
		Short: "Build a template from a hopx.toml definition",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := "hopx.toml"
			if len(args) == 1 {
				configPath = args[0]
			}

			client, err := newClient(flags)
			if err != nil {
				return err
			}

			template, err := client.Templates().BuildFromConfig(cmd.Context(), configPath,
				hopx.WithBuildLogs(func(line string) {
					fmt.Fprintln(os.Stderr, line)
				}),
			)
			if err != nil {
				return err
			}

			fmt.Println(template.TemplateID)
			return nil
		},
	}
	return cmd
}
