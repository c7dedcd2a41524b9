package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/folgplaces/standardizer/internal/config"
	"github.com/folgplaces/standardizer/internal/db"
	"github.com/folgplaces/standardizer/internal/engine"
	"github.com/folgplaces/standardizer/internal/gazetteer"
	"github.com/folgplaces/standardizer/internal/matcher"
	"github.com/folgplaces/standardizer/internal/tokenize"
	"github.com/folgplaces/standardizer/internal/web"
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "standardizer",
		Short: "Genealogy place-name standardizer",
		Long:  `Resolves free-text place names against a hierarchical gazetteer and scores the best matching places.`,
	}

	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createLookupCmd())
	rootCmd.AddCommand(createLoadCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildEngine opens an Engine in either SQL-backed or in-memory mode,
// depending on whether DATABASE_URL is set. placesFile/wordsFile are only
// consulted in in-memory mode.
func buildEngine(configFile, placesFile, wordsFile string, debug bool) (*engine.Engine, *db.Connection, error) {
	cfg, err := loadStandardizerConfig(configFile)
	if err != nil {
		return nil, nil, err
	}

	if db.IsBackedMode() {
		conn, err := db.NewConnection()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlStore := gazetteer.NewSQLStore(conn.DB)
		cached := gazetteer.NewCachedStore(sqlStore)

		var gz gazetteer.Gazetteer = cached
		if redisClient := gazetteer.NewRedisClientFromEnv(os.Getenv); redisClient != nil {
			gz = gazetteer.NewRedisCache(redisClient, cached)
			fmt.Println("Redis look-aside cache enabled")
		}

		eng := engine.New(gz, cfg, tokenize.NewDefaultNormalizer(debug))
		eng.SetErrorHandler(resolveErrorHandler(conn.DB, debug))
		engine.SetDefault(eng)
		return eng, conn, nil
	}

	gzMem := gazetteer.NewMemoryGazetteer()
	if placesFile != "" {
		f, err := os.Open(placesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open places file: %w", err)
		}
		defer f.Close()
		if err := gazetteer.LoadPlaces(f, gzMem); err != nil {
			return nil, nil, fmt.Errorf("failed to load places: %w", err)
		}
	}
	if wordsFile != "" {
		f, err := os.Open(wordsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open place_words file: %w", err)
		}
		defer f.Close()
		if err := gazetteer.LoadWords(f, gzMem); err != nil {
			return nil, nil, fmt.Errorf("failed to load place_words: %w", err)
		}
	}

	eng := engine.New(gzMem, cfg, tokenize.NewDefaultNormalizer(debug))
	eng.SetErrorHandler(resolveErrorHandler(nil, debug))
	engine.SetDefault(eng)
	return eng, nil, nil
}

func loadStandardizerConfig(configFile string) (*config.StandardizerConfig, error) {
	if configFile == "" {
		return config.DefaultStandardizerConfig(), nil
	}
	f, err := os.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	cfg, err := config.LoadStandardizerConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// resolveErrorHandler picks an audit sink: a Postgres-backed handler when a
// connection is available and AUDIT_LOG is set, a stderr logger when --debug
// is passed, or a no-op handler otherwise.
func resolveErrorHandler(sqlDB *sql.DB, debug bool) matcher.ErrorHandler {
	if sqlDB != nil && config.GetEnvBool("AUDIT_LOG", false) {
		if err := engine.CreateAuditSchema(sqlDB); err != nil {
			log.Printf("Failed to create audit schema, audit logging disabled: %v", err)
		} else {
			return engine.NewAuditHandler(sqlDB, debug)
		}
	}
	if debug {
		return matcher.LoggingHandler{}
	}
	return matcher.NoopHandler{}
}

func createServeCmd() *cobra.Command {
	var configFile, placesFile, wordsFile, webConfigFile string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP standardize API",
		Run: func(cmd *cobra.Command, args []string) {
			eng, conn, err := buildEngine(configFile, placesFile, wordsFile, debug)
			if err != nil {
				log.Fatalf("Failed to build engine: %v", err)
			}
			if conn != nil {
				defer conn.Close()
			}

			webConfig := web.DefaultConfig()
			if webConfigFile != "" {
				loaded, err := web.LoadConfig(webConfigFile)
				if err != nil {
					log.Fatalf("Failed to load web config: %v", err)
				}
				webConfig = loaded
			}
			if port := config.GetEnvInt("WEB_PORT", 0); port != 0 {
				webConfig.Server.Port = port
			}
			if host := config.GetEnv("WEB_HOST", ""); host != "" {
				webConfig.Server.Host = host
			}
			if apiKey := config.GetEnv("API_KEY", ""); apiKey != "" {
				webConfig.Auth.Enabled = true
				webConfig.Auth.APIKey = apiKey
			}

			server := web.NewServer(webConfig, eng)
			fmt.Printf("Starting standardizer on http://%s:%d\n", webConfig.Server.Host, webConfig.Server.Port)
			if err := server.Start(); err != nil {
				log.Fatalf("Server failed to start: %v", err)
			}
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Standardizer property config file")
	cmd.Flags().StringVar(&placesFile, "places", "", "Places file (in-memory mode only)")
	cmd.Flags().StringVar(&wordsFile, "words", "", "place_words file (in-memory mode only)")
	cmd.Flags().StringVar(&webConfigFile, "web-config", "", "Web server JSON config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug output in the tokenizer/matcher pipeline")

	return cmd
}

func createLookupCmd() *cobra.Command {
	var configFile, placesFile, wordsFile string
	var mode string
	var defaultCountry string
	var numResults int
	var debug bool

	cmd := &cobra.Command{
		Use:   "lookup [text]",
		Short: "Standardize a single place-name string from the command line",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			eng, conn, err := buildEngine(configFile, placesFile, wordsFile, debug)
			if err != nil {
				log.Fatalf("Failed to build engine: %v", err)
			}
			if conn != nil {
				defer conn.Close()
			}

			m := parseModeFlag(mode)
			results := eng.Standardize(args[0], defaultCountry, m, numResults)
			if len(results) == 0 {
				fmt.Println("No match found")
				return
			}
			for _, r := range results {
				fmt.Printf("%6.2f  [%d] %s\n", r.Score, r.Place.ID, r.Place.FullName(eng))
			}
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Standardizer property config file")
	cmd.Flags().StringVar(&placesFile, "places", "", "Places file (in-memory mode only)")
	cmd.Flags().StringVar(&wordsFile, "words", "", "place_words file (in-memory mode only)")
	cmd.Flags().StringVar(&mode, "mode", "best", "Resolution mode: best, required, or new")
	cmd.Flags().StringVar(&defaultCountry, "default-country", "", "Default country hint")
	cmd.Flags().IntVar(&numResults, "num-results", 10, "Maximum number of results to print")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug output in the tokenizer/matcher pipeline")

	return cmd
}

func parseModeFlag(mode string) engine.Mode {
	switch mode {
	case "required":
		return engine.REQUIRED
	case "new":
		return engine.NEW
	default:
		return engine.BEST
	}
}

func createLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load gazetteer data into Postgres",
		Long:  `Create the places/place_words schema and bulk-load the pipe-delimited source files into it.`,
	}

	cmd.AddCommand(createLoadSchemaCmd())
	cmd.AddCommand(createLoadPlacesCmd())
	cmd.AddCommand(createLoadWordsCmd())

	return cmd
}

func createLoadSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the places/place_words tables if absent",
		Run: func(cmd *cobra.Command, args []string) {
			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			if err := gazetteer.CreateSchema(conn.DB); err != nil {
				log.Fatalf("Failed to create schema: %v", err)
			}
			if err := engine.CreateAuditSchema(conn.DB); err != nil {
				log.Fatalf("Failed to create audit schema: %v", err)
			}
			fmt.Println("Schema ready")
		},
	}
}

func createLoadPlacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "places [filename]",
		Short: "Load a pipe-delimited places file into Postgres",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			f, err := os.Open(args[0])
			if err != nil {
				log.Fatalf("Failed to open %s: %v", args[0], err)
			}
			defer f.Close()

			sqlStore := gazetteer.NewSQLStore(conn.DB)
			if err := gazetteer.LoadPlaces(f, sqlStore); err != nil {
				log.Fatalf("Failed to load places: %v", err)
			}
		},
	}
}

func createLoadWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words [filename]",
		Short: "Load a pipe-delimited place_words file into Postgres",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			f, err := os.Open(args[0])
			if err != nil {
				log.Fatalf("Failed to open %s: %v", args[0], err)
			}
			defer f.Close()

			sqlStore := gazetteer.NewSQLStore(conn.DB)
			if err := gazetteer.LoadWords(f, sqlStore); err != nil {
				log.Fatalf("Failed to load place_words: %v", err)
			}
		},
	}
}

func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			if !db.IsBackedMode() {
				fmt.Println("DATABASE_URL not set; running in in-memory mode, nothing to ping")
				return
			}
			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			fmt.Println("Database connection successful!")
			var count int
			if err := conn.DB.QueryRow("SELECT COUNT(*) FROM places").Scan(&count); err != nil {
				log.Printf("Error counting places: %v", err)
			} else {
				fmt.Printf("Places loaded: %d\n", count)
			}
			if err := conn.DB.QueryRow("SELECT COUNT(*) FROM place_words").Scan(&count); err != nil {
				log.Printf("Error counting place_words: %v", err)
			} else {
				fmt.Printf("Word index entries: %d\n", count)
			}
		},
	}
}
