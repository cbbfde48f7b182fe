// Command upload pushes a companies CSV to the directory's admin import
// endpoint. With --dry-run it validates the file locally without touching
// the server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/floqer/directory/internal/directory/auth"
	"github.com/floqer/directory/internal/directory/csvimport"
)

var (
	flagFile   string
	flagMode   string
	flagAPIURL string
	flagCode   string
	flagDryRun bool
	flagSign   bool
)

func main() {
	root := &cobra.Command{
		Use:   "upload",
		Short: "Upload a companies CSV to the directory",
		RunE:  run,
	}

	root.Flags().StringVarP(&flagFile, "file", "f", "", "path to the CSV file (required)")
	root.Flags().StringVarP(&flagMode, "mode", "m", "append", "import mode: append or replace")
	root.Flags().StringVar(&flagAPIURL, "api-url", envOr("SITE_URL", "http://localhost:8080"), "directory base URL")
	root.Flags().StringVar(&flagCode, "code", os.Getenv("ADMIN_UPLOAD_CODE"), "admin upload code")
	root.Flags().BoolVar(&flagDryRun, "dry-run", false, "validate the CSV locally without uploading")
	root.Flags().BoolVar(&flagSign, "sign", false, "send a short-lived signed token instead of the raw code")
	_ = root.MarkFlagRequired("file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	if flagMode != "append" && flagMode != "replace" {
		return fmt.Errorf("invalid mode %q: must be append or replace", flagMode)
	}

	f, err := os.Open(flagFile)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", flagFile, err)
	}
	defer f.Close()

	if flagDryRun {
		return dryRun(f)
	}

	if flagCode == "" {
		return fmt.Errorf("admin code required: pass --code or set ADMIN_UPLOAD_CODE")
	}
	return upload(f)
}

// dryRun validates the CSV locally and prints the report.
func dryRun(f *os.File) error {
	rows, headers, err := csvimport.ParseCSV(f)
	if err != nil {
		return err
	}

	result := csvimport.ValidateAndMap(rows, headers)
	fmt.Printf("Rows: %d, valid: %d\n", len(rows), len(result.Companies))
	printList("Errors", result.Errors)
	printList("Warnings", result.Warnings)
	printList("Removed columns", result.RemovedColumns)

	if !result.IsValid {
		return fmt.Errorf("csv validation failed")
	}
	fmt.Println("CSV validation passed. Ready to upload.")
	return nil
}

// upload sends the CSV as a multipart form with bearer auth.
func upload(f *os.File) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(flagFile))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := writer.WriteField("mode", flagMode); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	token := flagCode
	if flagSign {
		token, err = auth.GenerateToken("upload-cli", flagCode, 15*time.Minute)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
	}

	req, err := http.NewRequest(http.MethodPost, flagAPIURL+"/api/admin/upload", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var report map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return fmt.Errorf("unreadable server response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		pretty, _ := json.MarshalIndent(report, "", "  ")
		return fmt.Errorf("upload failed (status %d):\n%s", resp.StatusCode, pretty)
	}

	fmt.Printf("Uploaded %v rows in %s mode\n", report["uploaded"], flagMode)
	if warnings, ok := report["warnings"].([]any); ok && len(warnings) > 0 {
		fmt.Printf("Warnings: %d\n", len(warnings))
	}
	if removed, ok := report["removedColumns"].([]any); ok && len(removed) > 0 {
		fmt.Printf("Removed columns: %d\n", len(removed))
	}
	return nil
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s (%d):\n", label, len(items))
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
