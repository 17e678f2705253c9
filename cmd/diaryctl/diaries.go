package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	diariesCmd := &cobra.Command{Use: "diaries", Short: "Diary entry operations (requires --token)"}

	var content, mood string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a diary entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"content": content}
			if mood != "" {
				payload["mood"] = mood
			}
			data, err := doPostJSON("/api/diaries", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&content, "content", "c", "", "Entry content (required)")
	createCmd.Flags().StringVarP(&mood, "mood", "m", "", "Mood")
	_ = createCmd.MarkFlagRequired("content")
	diariesCmd.AddCommand(createCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your diary entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/diaries")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	diariesCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get ENTRY_ID",
		Short: "Show a single entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/diaries/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	diariesCmd.AddCommand(getCmd)

	var upContent, upMood string
	updateCmd := &cobra.Command{
		Use:   "update ENTRY_ID",
		Short: "Update an entry's content and mood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"content": upContent}
			if upMood != "" {
				payload["mood"] = upMood
			}
			data, err := doPutJSON("/api/diaries/"+args[0], payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	updateCmd.Flags().StringVarP(&upContent, "content", "c", "", "New content (required)")
	updateCmd.Flags().StringVarP(&upMood, "mood", "m", "", "New mood")
	_ = updateCmd.MarkFlagRequired("content")
	diariesCmd.AddCommand(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete ENTRY_ID",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doDelete("/api/diaries/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	diariesCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(diariesCmd)
}
