package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/terassyi/coredump/internal/store"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved dumps, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "output", "o", "text", "Output format (text, json)")
}

// listEntry is the JSON form of a saved dump.
type listEntry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

func runList(cmd *cobra.Command, _ []string) error {
	dir, err := resolveDumpDir()
	if err != nil {
		return err
	}

	dumps, err := store.List(dir)
	if err != nil {
		return err
	}

	if listFormat == outputJSON {
		entries := make([]listEntry, 0, len(dumps))
		for _, d := range dumps {
			entries = append(entries, listEntry(d))
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(dumps) == 0 {
		cmd.Printf("No dumps found in %s.\n", dir)
		return nil
	}

	return writeDumpTable(cmd.OutOrStdout(), dumps)
}

// writeDumpTable prints dumps as aligned columns under a bold header. The
// header is colored after alignment so escape codes don't count as width.
func writeDumpTable(w io.Writer, dumps []store.Dump) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
	for _, d := range dumps {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Name, d.Size, d.ModTime.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	head, rest, _ := strings.Cut(buf.String(), "\n")
	if _, err := color.New(color.Bold).Fprintln(w, head); err != nil {
		return err
	}
	_, err := io.WriteString(w, rest)
	return err
}

// resolveDumpDir returns the configured dump directory with ~ expanded.
func resolveDumpDir() (string, error) {
	_, paths, err := loadPaths()
	if err != nil {
		return "", err
	}
	return paths.DumpDir(), nil
}
