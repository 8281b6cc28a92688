package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostctl/internal/config"
)

func TestInit_WritesConfig(t *testing.T) {
	origWizard := runWizard
	origSave := saveConfig
	origExists := fileExists
	t.Cleanup(func() {
		runWizard = origWizard
		saveConfig = origSave
		fileExists = origExists
	})

	fileExists = func(string) bool { return false }
	runWizard = func() (*config.Config, error) {
		return &config.Config{EnvID: "env-1", BuildCommand: "npm run build"}, nil
	}

	var savedPath string
	var savedCfg *config.Config
	saveConfig = func(cfg *config.Config, path string) error {
		savedCfg = cfg
		savedPath = path
		return nil
	}

	err := Init("hostctl.yaml")
	require.NoError(t, err)

	assert.Equal(t, "hostctl.yaml", savedPath)
	require.NotNil(t, savedCfg)
	assert.Equal(t, "env-1", savedCfg.EnvID)
}

func TestInit_WizardCanceled(t *testing.T) {
	origWizard := runWizard
	origExists := fileExists
	t.Cleanup(func() {
		runWizard = origWizard
		fileExists = origExists
	})

	fileExists = func(string) bool { return false }
	runWizard = func() (*config.Config, error) {
		return nil, errors.New("user aborted")
	}

	err := Init("hostctl.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_SaveFailure(t *testing.T) {
	origWizard := runWizard
	origSave := saveConfig
	origExists := fileExists
	t.Cleanup(func() {
		runWizard = origWizard
		saveConfig = origSave
		fileExists = origExists
	})

	fileExists = func(string) bool { return true }
	runWizard = func() (*config.Config, error) {
		return &config.Config{EnvID: "env-1"}, nil
	}
	saveConfig = func(*config.Config, string) error {
		return errors.New("disk full")
	}

	err := Init("hostctl.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}
