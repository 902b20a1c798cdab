package replconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/tairepl/cmds"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/logs"
)

//go:embed schema.cue
var Schema string

var configFileFlag = cmds.Collect[string]("-config")

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {

	var paths []string
	// explicit files take precedence
	paths = append(paths, *configFileFlag...)

	filenames := []string{
		"tairepl.cue",
		".tairepl.cue",
	}

	// working directory
	workingDir, err := os.Getwd()
	if err == nil {
		paths = append(paths, existing(workingDir, filenames)...)
	}

	// user config dir
	configDir, err := os.UserConfigDir()
	if err == nil {
		paths = append(paths, existing(configDir, filenames)...)
	}

	// system wide dir
	paths = append(paths, existing("/etc", filenames)...)

	loader := configs.NewLoader(paths, Schema)
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", loader.Paths(),
		)
	}
	return loader
}

func existing(dir string, filenames []string) (ret []string) {
	for _, filename := range filenames {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			ret = append(ret, path)
		}
	}
	return
}
