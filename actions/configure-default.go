package actions

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/config"
	"github.com/relloyd/costpipe/helper"
)

type DefaultAddConfig struct {
	ConfigFile *config.File `errorTxt:"config-file" mandatory:"yes"`
	Key        string       `errorTxt:"key" mandatory:"yes"`
	Value      string       `errorTxt:"value" mandatory:"yes"`
	Force      bool
	Output     io.Writer
}

type DefaultRemoveConfig struct {
	ConfigFile *config.File `errorTxt:"config-file" mandatory:"yes"`
	Key        string       `errorTxt:"key" mandatory:"yes"`
	Output     io.Writer
}

// RunDefaultAdd adds key+value to the given config file.
// If cfg.Force is not set then it return an error when the key exists.
func RunDefaultAdd(cfg *DefaultAddConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	if cfg.ConfigFile == nil {
		return errors.New("please supply values for config-file")
	}
	var val string
	if err := cfg.ConfigFile.Get(cfg.Key, &val); err == nil && !cfg.Force { // if key exists and we're not allowed to overwrite...
		return fmt.Errorf("key %q exists, use force to update the value or remove it first", cfg.Key)
	} else if err != nil {
		var k config.KeyNotFoundError
		if !errors.As(err, &k) { // if there was an unexpected error...
			return err
		}
	}
	if err := cfg.ConfigFile.Set(cfg.Key, cfg.Value); err != nil {
		return errors.Wrap(err, "error writing config file after adding")
	}
	fmt.Fprintf(outputOrStdout(cfg.Output), "Key %q added to %q\n", cfg.Key, cfg.ConfigFile.FullPath)
	return nil
}

// RunDefaultRemove removes a key from the given config file.
func RunDefaultRemove(cfg *DefaultRemoveConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	if cfg.ConfigFile == nil {
		return errors.New("please supply values for config-file")
	}
	if err := cfg.ConfigFile.Delete(cfg.Key); err != nil {
		return fmt.Errorf("unable to delete key %q from config: %v", cfg.Key, err)
	}
	fmt.Fprintf(outputOrStdout(cfg.Output), "Key %q removed\n", cfg.Key)
	return nil
}

// RunDefaultList prints each default flag value as key=value.
func RunDefaultList(c *config.File, w io.Writer) error {
	keys, err := c.GetAllKeys()
	if err != nil {
		return err
	}
	w = outputOrStdout(w)
	for _, k := range keys {
		var val string
		if err := c.Get(k, &val); err != nil {
			return err
		}
		fmt.Fprintf(w, "%v=%v\n", k, val)
	}
	return nil
}
