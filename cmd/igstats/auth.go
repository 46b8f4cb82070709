package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igstats/pkg/auth"
	"igstats/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage upstream API credentials",
	Long: `Manage stored upstream API access keys securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your access keys or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [label]",
	Short: "Store an upstream access key securely",
	Long: `Store an upstream API access key in the system keychain or an
encrypted file. The key is issued with your upstream API subscription;
keys are prompted without echo.

When no label is given the key is stored under the default label and
used automatically.`,
	Example: `  # Store the default key
  igstats auth login

  # Store a key under a named label
  igstats auth login workaccount`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [label]",
	Short: "Remove a stored access key",
	Args:  cobra.MaximumNArgs(1),
	Run:   runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Long:  `List stored upstream credentials with the key material masked.`,
	Run:   runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authListCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	label := auth.DefaultLabel
	if len(args) > 0 {
		label = strings.TrimSpace(args[0])
	}
	if label == "" {
		ui.PrintError("Label cannot be empty", "")
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	if existing, _ := manager.Retrieve(label); existing != nil {
		fmt.Printf("Credential '%s' already exists. Update it? (y/N): ", label)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("Access key (hidden as you type): ")
	accessKey, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read access key", err.Error())
		os.Exit(1)
	}
	if len(accessKey) < 8 {
		ui.PrintError("Access key looks too short", "")
		os.Exit(1)
	}

	fmt.Print("API base URL (press Enter for default): ")
	baseURL, _ := reader.ReadString('\n')
	baseURL = strings.TrimSpace(baseURL)

	cred := &auth.Credential{
		Label:        label,
		AccessKey:    accessKey,
		BaseURL:      baseURL,
		LastModified: time.Now(),
	}

	if err := manager.Store(cred); err != nil {
		ui.PrintError("Failed to store credential", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Credential saved: " + label)
	fmt.Println("\nQuick start:")
	fmt.Println("  igstats profile <username>")
	fmt.Println("  igstats reels <username> --limit 12")
	if label != auth.DefaultLabel {
		fmt.Printf("  igstats profile <username> --account %s\n", label)
	}
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	label := auth.DefaultLabel
	if len(args) > 0 {
		label = strings.TrimSpace(args[0])
	}

	if err := manager.Delete(label); err != nil {
		ui.PrintError("Failed to remove credential", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Credential removed: " + label)
}

func runAuthList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	creds, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list credentials", err.Error())
		os.Exit(1)
	}
	if len(creds) == 0 {
		ui.PrintInfo("No stored credentials", "Use 'igstats auth login' to add one")
		return
	}

	for i, cred := range creds {
		sanitized := auth.Sanitize(cred)
		fmt.Printf("%d. Label: %s\n", i+1, sanitized.Label)
		fmt.Printf("   Access Key: %s\n", sanitized.AccessKey)
		if sanitized.BaseURL != "" {
			fmt.Printf("   Base URL: %s\n", sanitized.BaseURL)
		}
		if !sanitized.LastModified.IsZero() {
			fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}
}

// readSecret reads a value from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
