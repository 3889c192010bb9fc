package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/gitlanes/internal/git/domain"
	gitinfra "github.com/zjrosen/gitlanes/internal/git/infrastructure"
	"github.com/zjrosen/gitlanes/internal/graph"
)

var (
	flagExportFormat string
	flagExportLimit  int
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the commit graph layout as YAML or JSON",
	Long: `Export loads the commit history, assigns lanes, and writes the
node and edge geometry that the TUI would render. Useful for piping
into other tools or inspecting lane assignment.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "yaml", "output format: yaml or json")
	exportCmd.Flags().IntVarP(&flagExportLimit, "limit", "n", 200, "maximum commits to export")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().StringVarP(&flagBranch, "branch", "b", "", "start from this branch or ref")
	exportCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "include all branches")
	exportCmd.Flags().BoolVar(&flagFirstParent, "first-parent", false, "follow first parents only")
	rootCmd.AddCommand(exportCmd)
}

type exportNode struct {
	Hash    string   `yaml:"hash" json:"hash"`
	Subject string   `yaml:"subject" json:"subject"`
	Lane    int      `yaml:"lane" json:"lane"`
	Row     int      `yaml:"row" json:"row"`
	X       float64  `yaml:"x" json:"x"`
	Y       float64  `yaml:"y" json:"y"`
	Color   int      `yaml:"color" json:"color"`
	IsMerge bool     `yaml:"is_merge,omitempty" json:"is_merge,omitempty"`
	IsRoot  bool     `yaml:"is_root,omitempty" json:"is_root,omitempty"`
	Parents []string `yaml:"parents,omitempty" json:"parents,omitempty"`
	Refs    []string `yaml:"refs,omitempty" json:"refs,omitempty"`
}

type exportEdge struct {
	FromX         float64 `yaml:"from_x" json:"from_x"`
	FromY         float64 `yaml:"from_y" json:"from_y"`
	ToX           float64 `yaml:"to_x" json:"to_x"`
	ToY           float64 `yaml:"to_y" json:"to_y"`
	Color         int     `yaml:"color" json:"color"`
	ControlOffset float64 `yaml:"control_offset" json:"control_offset"`
}

type exportDocument struct {
	Repo    string       `yaml:"repo" json:"repo"`
	Commits int          `yaml:"commits" json:"commits"`
	MaxLane int          `yaml:"max_lane" json:"max_lane"`
	Nodes   []exportNode `yaml:"nodes" json:"nodes"`
	Edges   []exportEdge `yaml:"edges" json:"edges"`
}

func runExport(cmd *cobra.Command, args []string) error {
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

	commits, err := executor.LoadGraph(cmd.Context(), domain.LogQuery{
		Limit:           flagExportLimit,
		AllBranches:     flagAll,
		FirstParentOnly: flagFirstParent,
		Branch:          flagBranch,
	})
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	doc := buildExportDocument(repoPath, commits)

	out, err := encodeExport(doc, flagExportFormat)
	if err != nil {
		return err
	}

	if flagExportOutput != "" {
		return os.WriteFile(flagExportOutput, out, 0644)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func buildExportDocument(repoPath string, commits []domain.CommitRecord) exportDocument {
	layout := graph.AssignLanes(commits)
	metrics := graph.DefaultMetrics()

	nodes := graph.BuildNodes(commits, layout, metrics, 0, len(commits), "")
	edges := graph.ProjectEdges(commits, layout, metrics, 0, len(commits))

	doc := exportDocument{
		Repo:    repoPath,
		Commits: len(commits),
		MaxLane: layout.MaxLane(),
		Nodes:   make([]exportNode, 0, len(nodes)),
		Edges:   make([]exportEdge, 0, len(edges)),
	}
	for _, n := range nodes {
		row := layout.Rows[n.Hash]
		doc.Nodes = append(doc.Nodes, exportNode{
			Hash:    n.Hash,
			Subject: commits[row].Subject,
			Lane:    layout.Lanes[n.Hash],
			Row:     row,
			X:       n.CenterX,
			Y:       n.CenterY,
			Color:   n.Color,
			IsMerge: n.IsMerge,
			IsRoot:  n.IsRoot,
			Parents: commits[row].Parents,
			Refs:    commits[row].Refs,
		})
	}
	for _, e := range edges {
		doc.Edges = append(doc.Edges, exportEdge{
			FromX:         e.OriginX,
			FromY:         e.OriginY,
			ToX:           e.TargetX,
			ToY:           e.TargetY,
			Color:         e.Color,
			ControlOffset: e.ControlOffset,
		})
	}
	return doc
}

func encodeExport(doc exportDocument, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(doc)
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	default:
		return nil, fmt.Errorf("unknown format %q, expected yaml or json", format)
	}
}
