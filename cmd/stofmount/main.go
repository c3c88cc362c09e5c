// Command stofmount projects a document's graph as a read-only NFS mount:
// nodes as directories, fields and functions as files. It is a bonus
// browsing aid grounded on the teacher's cmd/mount.go + internal/nfsmount,
// trimmed to the read-only graph-as-filesystem projection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	stof "github.com/dev-formata-io/stof-sub002"
	"github.com/dev-formata-io/stof-sub002/internal/graphfs"
)

var mountFormatFlag string

var rootCmd = &cobra.Command{
	Use:   "stofmount <file> <mountpoint>",
	Short: "Mount a document's graph as a read-only NFS filesystem",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, mountPoint := args[0], args[1]

		doc := stof.New()
		ctx := context.Background()
		data, rerr := os.ReadFile(file)
		if rerr != nil {
			return fmt.Errorf("read %s: %w", file, rerr)
		}
		if err := doc.BinaryImport(ctx, mountFormatFlag, data, nil); err != nil {
			return fmt.Errorf("import: %w", err)
		}

		if err := os.MkdirAll(mountPoint, 0o755); err != nil {
			return fmt.Errorf("create mount point %s: %w", mountPoint, err)
		}

		fs := graphfs.NewGraphFS(doc.Graph)

		srv, err := graphfs.NewServer(fs)
		if err != nil {
			return fmt.Errorf("start NFS server: %w", err)
		}
		defer func() { _ = srv.Close() }()

		fmt.Printf("Mounting %s at %s (NFS on localhost:%d)...\n", file, mountPoint, srv.Port())
		if err := graphfs.Mount(srv.Port(), mountPoint, false); err != nil {
			return err
		}
		fmt.Printf("Mounted read-only. Press Ctrl-C to unmount.\n")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		fmt.Printf("\nUnmounting %s...\n", mountPoint)
		if err := graphfs.Unmount(mountPoint); err != nil {
			fmt.Printf("warning: unmount failed: %v\n", err)
			fmt.Printf("run manually: sudo umount %s\n", mountPoint)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&mountFormatFlag, "format", "f", "json", "format of the file being mounted")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
