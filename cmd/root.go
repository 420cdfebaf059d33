package cmd

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-gallery/pkg/config"
	"image-gallery/pkg/services"
)

// Configuration flags
var (
	configFile   string
	imagesDir    string
	outputFile   string
	priority     string
	htmlOutput   string
	templateFile string
	bucketName   string
	objectName   string
	portNumber   string
	verbose      bool
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "image-gallery",
		Short: "Image Gallery generates the JSON manifest of a static image gallery",
		Long: `Image Gallery scans a directory tree of images organized by topic and writes
a JSON manifest of categories, subcategories and image titles that a static
front end can render without further file-system access.

Running it without a subcommand is the same as running "generate".`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate()
		},
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default is ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVarP(&imagesDir, "images", "i", "", "Set the IMAGES_DIR (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Set the OUTPUT_FILE (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&priority, "priority", "", "Set the GALLERY_PRIORITY as a comma separated list (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&htmlOutput, "html", "", "Set the HTML_OUTPUT (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&templateFile, "template", "", "Set the TEMPLATE_FILE used for the HTML index (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&bucketName, "bucket", "b", "", "Set the BUCKET_NAME (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&objectName, "object", "", "Set the OBJECT_NAME (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add commands to root
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newListCategoriesCmd())
	rootCmd.AddCommand(newShowCategoryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	overrides := map[string]string{
		"IMAGES_DIR":       imagesDir,
		"OUTPUT_FILE":      outputFile,
		"GALLERY_PRIORITY": priority,
		"HTML_OUTPUT":      htmlOutput,
		"TEMPLATE_FILE":    templateFile,
		"BUCKET_NAME":      bucketName,
		"OBJECT_NAME":      objectName,
		"PORT":             portNumber,
	}
	for key, value := range overrides {
		if value != "" {
			os.Setenv(key, value)
		}
	}

	// Load configuration from the config file and environment variables (potentially set above)
	return config.Load(configFile)
}

// initService loads the configuration and initializes the gallery service
func initService() (*config.Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	services.InitService(cfg)
	return cfg, nil
}
