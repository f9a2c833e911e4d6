package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskmanager/internal/database"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage task templates",
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Store a task template read from a YAML file",
	Long: `Read a task template from a YAML file and store it. The file uses the same
shape as the JSON API:

  name: Feature rollout
  variables: [feature]
  defaultValues:
    feature: search
  templateStructure:
    - id: 1
      title: Ship {{feature}}
      taskTypeId: 1
      subtasks:
        - id: 2
          title: Build {{feature}}
          taskTypeId: 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadTemplateFile(args[0])
		if err != nil {
			return err
		}

		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		templates := service.NewTemplateService(repository.NewStore(db))
		t, err := templates.Create(log.Logger.WithContext(cmd.Context()), in)
		if err != nil {
			return fmt.Errorf("importing template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported template %q with id %d\n", t.Name, t.ID)
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateImportCmd)
	rootCmd.AddCommand(templateCmd)
}

func loadTemplateFile(path string) (service.CreateTemplateInput, error) {
	var in service.CreateTemplateInput
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("reading template file: %w", err)
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parsing template file %s: %w", path, err)
	}
	return in, nil
}
