package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hopx-ai/hopx-go"
)

func sandboxCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sandbox",
		Aliases: []string{"sb"},
		Short:   "Manage sandboxes",
	}
	cmd.AddCommand(sandboxLsCmd(flags))
	cmd.AddCommand(sandboxCreateCmd(flags))
	cmd.AddCommand(sandboxKillCmd(flags))
	cmd.AddCommand(sandboxExecCmd(flags))
	return cmd
}

func sandboxLsCmd(flags *globalFlags) *cobra.Command {
	var state string
	var metadata []string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List sandboxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}

			var opts []hopx.ListOption
			if state != "" {
				opts = append(opts, hopx.WithState(hopx.SandboxState(state)))
			}
			if len(metadata) > 0 {
				filter, err := parseKeyValues(metadata)
				if err != nil {
					return err
				}
				opts = append(opts, hopx.WithMetadataFilter(filter))
			}

			sandboxes, err := client.ListSandboxes(cmd.Context(), opts...)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTEMPLATE\tSTATE\tENDS")
			for _, sb := range sandboxes {
				ends := "-"
				if !sb.EndAt.IsZero() {
					ends = time.Until(sb.EndAt).Round(time.Second).String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sb.SandboxID, sb.TemplateID, sb.State, ends)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by state (running, paused, ...)")
	cmd.Flags().StringSliceVar(&metadata, "metadata", nil, "filter by metadata key=value")
	return cmd
}

func sandboxCreateCmd(flags *globalFlags) *cobra.Command {
	var timeout time.Duration
	var metadata []string

	cmd := &cobra.Command{
		Use:   "create <template>",
		Short: "Create a sandbox from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}

			var opts []hopx.SandboxOption
			if timeout > 0 {
				opts = append(opts, hopx.WithSandboxTimeout(timeout))
			}
			if len(metadata) > 0 {
				meta, err := parseKeyValues(metadata)
				if err != nil {
					return err
				}
				opts = append(opts, hopx.WithMetadata(meta))
			}

			sandbox, err := client.CreateSandbox(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			fmt.Println(sandbox.ID())
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "sandbox lifetime, e.g. 10m")
	cmd.Flags().StringSliceVar(&metadata, "metadata", nil, "metadata key=value")
	return cmd
}

func sandboxKillCmd(flags *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "kill [id...]",
		Short: "Kill sandboxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("pass sandbox IDs or --all")
			}

			client, err := newClient(flags)
			if err != nil {
				return err
			}

			if all {
				killed, err := client.KillAllSandboxes(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("killed %d sandboxes\n", killed)
				return nil
			}

			for _, id := range args {
				if err := client.KillSandbox(cmd.Context(), id); err != nil {
					return fmt.Errorf("kill %s: %w", id, err)
				}
				fmt.Println(id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "kill every sandbox")
	return cmd
}

func sandboxExecCmd(flags *globalFlags) *cobra.Command {
	var cwd string

	cmd := &cobra.Command{
		Use:   "exec <id> -- <command>",
		Short: "Run a command inside a sandbox",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}

			sandbox, err := client.ConnectSandbox(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var opts []hopx.CommandOption
			if cwd != "" {
				opts = append(opts, hopx.WithCwd(cwd))
			}

			result, err := sandbox.Commands().Run(cmd.Context(), strings.Join(args[1:], " "), opts...)
			if err != nil {
				return err
			}

			fmt.Fprint(os.Stdout, result.Stdout)
			fmt.Fprint(os.Stderr, result.Stderr)
			if result.ExitCode != 0 {
				return fmt.Errorf("command exited with code %d", result.ExitCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", "", "working directory inside the sandbox")
	return cmd
}

// parseKeyValues splits "k=v" strings into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", pair)
		}
		out[k] = v
	}
	return out, nil
}
