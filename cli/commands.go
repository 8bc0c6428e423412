package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macmeta/macmeta"
)

var listLong bool

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List known attributes, or the attributes set on a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, attr := range macmeta.Attributes() {
				if listLong {
					fmt.Printf("%-16s %-24s %-14s %s\n", attr.Name, attr.Constant, attr.Kind, attr.Help)
				} else {
					fmt.Printf("%-16s %s\n", attr.Name, attr.Constant)
				}
			}
			return nil
		}

		m, err := openObject(args[0])
		if err != nil {
			return err
		}
		keys, err := m.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <file> <attribute>",
	Short: "Print an attribute value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openObject(args[0])
		if err != nil {
			return err
		}
		v, err := m.Get(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		fmt.Println(v.Render())
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <file> <attribute> <value>...",
	Short: "Set an attribute value, replacing any existing value",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openObject(args[0])
		if err != nil {
			return err
		}
		attr, err := macmeta.Resolve(args[1])
		if err != nil {
			return err
		}
		value, err := parseValue(attr, args[2:])
		if err != nil {
			return err
		}
		return m.Set(cmd.Context(), attr.Name, value)
	},
}

func appendCommand(use, short string, update bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openObject(args[0])
			if err != nil {
				return err
			}
			attr, err := macmeta.Resolve(args[1])
			if err != nil {
				return err
			}
			value, err := parseValue(attr, args[2:])
			if err != nil {
				return err
			}
			return m.Append(cmd.Context(), attr.Name, value, update)
		},
	}
}

func removeCommand(use, short string, strict bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openObject(args[0])
			if err != nil {
				return err
			}
			attr, err := macmeta.Resolve(args[1])
			if err != nil {
				return err
			}
			element, err := parseElement(attr, args[2])
			if err != nil {
				return err
			}
			if strict {
				return m.Remove(cmd.Context(), attr.Name, element)
			}
			return m.Discard(cmd.Context(), attr.Name, element)
		},
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear <file> <attribute>...",
	Short: "Remove attributes from every backend they are bound to",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openObject(args[0])
		if err != nil {
			return err
		}
		for _, name := range args[1:] {
			if err := m.Clear(cmd.Context(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror <file> <attribute1> <attribute2>",
	Short: "Synchronize two attributes: union for lists, overwrite for scalars",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openObject(args[0])
		if err != nil {
			return err
		}
		return m.Mirror(cmd.Context(), args[1], args[2])
	},
}

var jsonCmd = &cobra.Command{
	Use:   "json <file>",
	Short: "Print all set attributes of a file as one JSON object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openObject(args[0])
		if err != nil {
			return err
		}
		line, err := m.ToJSON(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(line)
		return nil
	},
}

var backupFile string

var backupCmd = &cobra.Command{
	Use:   "backup <file>...",
	Short: "Snapshot file metadata into a newline-delimited JSON backup file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records := make([]*macmeta.BackupRecord, 0, len(args))
		for _, path := range args {
			m, err := openObject(path)
			if err != nil {
				return err
			}
			record, err := m.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return macmeta.WriteBackupFile(backupFile, records)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore file metadata from a backup file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := macmeta.LoadBackupFile(backupFile)
		if err != nil {
			return err
		}
		for _, record := range records {
			m, err := openObject(record.FilePath)
			if err != nil {
				// Records for vanished files stay in the backup; skip them.
				logger.Warn("skipping %s: %v", record.FilePath, err)
				continue
			}
			if err := m.Restore(cmd.Context(), record); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "include kinds and descriptions")
	backupCmd.Flags().StringVar(&backupFile, "backup-file", macmeta.BackupFileName, "backup file path")
	restoreCmd.Flags().StringVar(&backupFile, "backup-file", macmeta.BackupFileName, "backup file path")

	rootCmd.AddCommand(
		listCmd,
		getCmd,
		setCmd,
		appendCommand("append <file> <attribute> <value>...", "Append values to a list attribute", false),
		appendCommand("update <file> <attribute> <value>...", "Append values not already present", true),
		removeCommand("remove <file> <attribute> <value>", "Remove a value; error if absent", true),
		removeCommand("discard <file> <attribute> <value>", "Remove a value; no error if absent", false),
		clearCmd,
		mirrorCmd,
		jsonCmd,
		backupCmd,
		restoreCmd,
	)
}
