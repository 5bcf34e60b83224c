package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nvcheck/internal/libpath"
)

func newPathsCommand(cctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show library search directories and where each preload library resolves",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			env := libpath.SnapshotEnv()
			candidates := libpath.Resolve(env, cfg.Preload.ExtraDirs)
			libraries := cfg.Preload.Libraries
			if len(libraries) == 0 {
				libraries = libpath.DefaultPreloadLibraries
			}

			if jsonFlag {
				return writeJSON(cmd, pathsReport(candidates, libraries))
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(candidates))
			for _, candidate := range candidates {
				exists := "no"
				if candidate.Exists {
					exists = "yes"
				}
				rows = append(rows, []string{candidate.Dir, string(candidate.Origin), exists})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"DIRECTORY", "ORIGIN", "EXISTS"},
				aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft},
			}, rows))

			for _, name := range libraries {
				if path, ok := libpath.Locate(name, candidates); ok {
					fmt.Fprintf(out, "%s -> %s\n", name, path)
				} else {
					fmt.Fprintf(out, "%s -> not found\n", name)
				}
			}

			fmt.Fprintf(out, "\nLD_LIBRARY_PATH for encoder children:\n%s\n",
				libpath.SearchPath(candidates, os.Getenv("LD_LIBRARY_PATH")))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the resolution as JSON")
	return cmd
}

type candidateView struct {
	Dir    string `json:"dir"`
	Origin string `json:"origin"`
	Exists bool   `json:"exists"`
}

type libraryView struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Found bool   `json:"found"`
}

type pathsView struct {
	Candidates []candidateView `json:"candidates"`
	Libraries  []libraryView   `json:"libraries"`
	SearchPath string          `json:"search_path"`
}

func pathsReport(candidates []libpath.Candidate, libraries []string) pathsView {
	view := pathsView{
		SearchPath: libpath.SearchPath(candidates, os.Getenv("LD_LIBRARY_PATH")),
	}
	for _, candidate := range candidates {
		view.Candidates = append(view.Candidates, candidateView{
			Dir:    candidate.Dir,
			Origin: string(candidate.Origin),
			Exists: candidate.Exists,
		})
	}
	for _, name := range libraries {
		path, ok := libpath.Locate(name, candidates)
		view.Libraries = append(view.Libraries, libraryView{Name: name, Path: path, Found: ok})
	}
	return view
}
