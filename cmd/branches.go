package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	gitinfra "github.com/zjrosen/gitlanes/internal/git/infrastructure"
)

var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List local branches",
	Long:  `Branches prints the repository's local branches, marking the current one.`,
	RunE:  runBranches,
}

func init() {
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	repoPath, err := resolveRepoPath()
	if err != nil {
		return err
	}

	executor := gitinfra.NewCLIExecutor(repoPath)
	if !executor.IsGitRepo(cmd.Context()) {
		return fmt.Errorf("%s is not a git repository", repoPath)
	}

	branches, err := executor.ListBranches(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing branches: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, b := range branches {
		marker := " "
		if b.IsCurrent {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, b.Name)
	}
	return nil
}
