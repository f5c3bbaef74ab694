package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"typescope/internal/config"
	"typescope/internal/crawler"
	"typescope/internal/explorer"
	"typescope/internal/extractor"
	"typescope/internal/objgraph"
	"typescope/internal/oracle"
	"typescope/internal/storage"
	"typescope/internal/typeinfo"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "typescope",
		Short: "Reflective type-closure and object-graph introspection",
	}
	dbPath      string
	searchPaths []string
	schemaPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "typescope.db", "Path to the local descriptor database (SQLite)")
	rootCmd.PersistentFlags().StringArrayVarP(&searchPaths, "path", "p", nil, "Type catalog search path (YAML file or directory); repeatable")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "Validate emitted descriptors against this JSON schema")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(scanCmd)
}

// validateEncoded checks one encoded descriptor against the wire schema when
// --schema is given; a failing document aborts the command.
func validateEncoded(encoded []byte) {
	if schemaPath == "" {
		return
	}
	if err := typeinfo.ValidateEncoded(schemaPath, encoded); err != nil {
		log.Fatalf("Schema validation failed: %v", err)
	}
}

// loadOracle builds the catalog oracle from the --path flags, falling back
// to the search paths configured in config.yaml.
func loadOracle() (oracle.Oracle, error) {
	paths := searchPaths
	if len(paths) == 0 {
		if cfg, err := config.LoadConfig("config.yaml"); err == nil {
			paths = cfg.Explorer.Paths
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no type catalog search path given (use --path or config.yaml)")
	}
	return oracle.LoadCatalog(paths)
}

var parseSummary bool

var parseCmd = &cobra.Command{
	Use:   "parse <type>",
	Short: "Resolve the full closure of one type and print its descriptor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		o, err := loadOracle()
		if err != nil {
			log.Fatalf("Failed to load type catalog: %v", err)
		}

		repo, err := explorer.New(o).Explore(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if parseSummary {
			fmt.Print(repo.Root().Summary())
			return
		}
		encoded := repo.Root().Encode()
		validateEncoded([]byte(encoded))
		fmt.Println(encoded)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <type>...",
	Short: "Resolve several roots leniently; unresolved roots are dropped",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		o, err := loadOracle()
		if err != nil {
			log.Fatalf("Failed to load type catalog: %v", err)
		}

		repo, err := explorer.New(o).ExploreAll(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, d := range repo.RootDescriptors() {
			validateEncoded([]byte(d.Encode()))
		}
		fmt.Println(typeinfo.EncodeAll(repo.RootDescriptors()))
	},
}

var (
	graphLabel       string
	graphMaxDepth    int
	graphMaxElements int
)

var graphCmd = &cobra.Command{
	Use:   "graph <json-file>",
	Short: "Serialize the value graph of a JSON document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			log.Fatalf("Failed to parse input: %v", err)
		}

		node := objgraph.New(graphMaxDepth, graphMaxElements).Serialize(value, graphLabel)
		fmt.Println(node.Encode())
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan Go sources, explore every declared type and persist the run",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		cr := crawler.NewCrawler(extractor.New())
		catalog, err := cr.BuildCatalog([]string{dir})
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		fmt.Printf("Scanned %s: %d types cataloged.\n", dir, catalog.Len())

		roots := catalog.Names()
		repo, err := explorer.New(catalog).ExploreAll(roots)
		if err != nil {
			log.Fatalf("Exploration failed: %v", err)
		}
		fmt.Printf("Explored %d descriptors.\n", repo.Len())

		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		runID, err := store.SaveRun(context.Background(), dir, repo)
		if err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}
		fmt.Printf("Saved run %d to %s.\n", runID, dbPath)
	},
}

func init() {
	parseCmd.Flags().BoolVarP(&parseSummary, "summary", "s", false, "Print a human-readable digest instead of JSON")
	graphCmd.Flags().StringVarP(&graphLabel, "label", "l", "value", "Variable label for the root value")
	graphCmd.Flags().IntVar(&graphMaxDepth, "max-depth", objgraph.DefaultMaxDepth, "Maximum recursion depth")
	graphCmd.Flags().IntVar(&graphMaxElements, "max-elements", objgraph.DefaultMaxElements, "Maximum elements per collection")
}
