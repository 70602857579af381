package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/relloyd/costpipe/actions"
	"github.com/relloyd/costpipe/aws/s3"
	"github.com/relloyd/costpipe/config"
	c "github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/logger"
	"github.com/relloyd/costpipe/rdbms/shared"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set before the other init() functions
// register Cobra flags, which read environment variables instead of config in this mode.
func init() {
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" { // if variable for 12factor mode is set and we should read env vars to determine actions...
		twelveFactorMode = true
		if strings.ToLower(mode) == "lambda" {
			lambdaMode = true
		}
	} else { // else 12factor mode should be off...
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
		lambdaMode = false
	}
}

const (
	envVarTwelveFactorMode = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarCommand          = c.EnvVarPrefix + "_" + "COMMAND"
	envVarSubcommand       = c.EnvVarPrefix + "_" + "SUBCOMMAND"
	envVarSourceObject     = c.EnvVarPrefix + "_" + "SOURCE_OBJECT" // [<schema>.]<table> used by extract
	envVarLogLevel         = c.EnvVarPrefix + "_" + "LOG_LEVEL"
	envVarStackDump        = c.EnvVarPrefix + "_" + "STACK_DUMP"
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if os env var envVarTwelveFactorMode is "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:    "",
		envVarSubcommand: "",
		helper.GetDsnEnvVarName(c.ConnectionNameSource): "",
		helper.GetDsnEnvVarName(c.ConnectionNameTarget): "",
		envVarSourceObject: "",
		envVarLogLevel:     "",
		envVarStackDump:    "",
	}
	twelveFactorVarsSensitive = map[string]string{ // values that must not be logged.
		helper.GetDsnEnvVarName(c.ConnectionNameSource): "",
		helper.GetDsnEnvVarName(c.ConnectionNameTarget): "",
	}
)

type twelveFactorAction struct {
	setupFunc  func(src string)
	runnerFunc func() (interface{}, error)
}

var twelveFactorActions = map[string]twelveFactorAction{
	c.ActionFuncsCommandRun + "-" + c.ActionFuncsSubCommandCostByEq: {
		setupFunc: func(src string) {
			runCostByEqCfg.SourceName = c.ConnectionNameSource
			runCostByEqCfg.TargetName = c.ConnectionNameTarget
		},
		runnerFunc: func() (interface{}, error) {
			return runCostByEq(context.Background())
		},
	},
	c.ActionFuncsCommandExtract: {
		setupFunc: func(src string) {
			extractCfg.SourceString = actions.ConnectionObject{ConnectionObject: src}
		},
		runnerFunc: func() (interface{}, error) {
			return runExtract(context.Background())
		},
	},
}

func getConnectionLoader() actions.ConnectionLoader {
	if twelveFactorMode {
		return &TwelveFactorConnections{}
	} else {
		return config.Connections
	}
}

func getConnectionGetterSetter() actions.ConnectionGetterSetter {
	if twelveFactorMode {
		fmt.Printf("Error: connections cannot be configured when %v is set (supply them using %v instead)\n",
			envVarTwelveFactorMode,
			helper.GetDsnEnvVarName("<connection-name>"))
		os.Exit(1)
	}
	return config.Connections
}

// twelveFactorActionName joins the command and optional subcommand found in the environment.
func twelveFactorActionName(command, subcommand string) string {
	if subcommand == "" {
		return command
	}
	return command + "-" + subcommand
}

// execute12FactorMode runs the action named by the environment and returns its result for lambda.
func execute12FactorMode(acts map[string]twelveFactorAction) (result interface{}, err error) {
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "warn")
	var log *logger.LoggerImpl
	if lambdaMode {
		log = logger.NewLambdaLogger(c.AppName, logLevel, stackDumpOnPanic)
	} else {
		log = logger.NewLogger(c.AppName, logLevel, stackDumpOnPanic)
	}
	log.Info("costpipe is running in 12 Factor mode...")
	for k := range twelveFactorVars { // for each env variable that we need...
		twelveFactorVars[k] = os.Getenv(k)
		if _, sensitive := twelveFactorVarsSensitive[k]; !sensitive {
			log.Debug(k, "=", twelveFactorVars[k])
		} else {
			log.Debug(k, "=", "<obfuscated>")
		}
	}
	action := twelveFactorActionName(twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
	a, ok := acts[action]
	if !ok {
		err = fmt.Errorf("invalid combination of command (%v) and subcommand (%v)", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
		log.Error(err.Error())
		return
	}
	// Setup the source string to include the object, as Cobra would have with CLI args.
	a.setupFunc(fmt.Sprintf("%v.%v", c.ConnectionNameSource, twelveFactorVars[envVarSourceObject])) // e.g. SOURCE.dbo.EQ
	result, err = a.runnerFunc()
	if err != nil {
		log.Error("Error: ", err)
	}
	return result, err
}

// TwelveFactorConnections loads connections from <prefix>_<NAME>_DSN environment variables.
type TwelveFactorConnections struct{}

// LoadConnection builds connection details for connectionName using its DSN in the environment.
// The type is implied by the DSN scheme. S3 URLs take their region from <prefix>_<NAME>_S3_REGION.
func (t *TwelveFactorConnections) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	kDsn := helper.GetDsnEnvVarName(connectionName)
	var vDsn string
	if err := helper.ReadValueFromEnv(kDsn, &vDsn); err != nil { // if we cannot find the DSN in the environment...
		return shared.ConnectionDetails{}, fmt.Errorf("unable to find value for %v in the environment: %w", kDsn, err)
	}
	var v actions.ConnectionValidator
	if s3.IsURL(vDsn) {
		v = &actions.S3Connection{
			Dsn:    vDsn,
			Region: helper.ReadValueFromEnvWithDefault(helper.GetRegionEnvVarName(connectionName), os.Getenv("AWS_REGION")),
		}
	} else {
		v = &actions.DsnConnection{DsnConnectionDetails: shared.DsnConnectionDetails{Dsn: vDsn}}
	}
	vType, err := v.GetScheme()
	if err != nil {
		return shared.ConnectionDetails{}, err
	}
	return shared.ConnectionDetails{
		Type:        vType,
		LogicalName: connectionName,
		Data:        v.GetMap(make(map[string]string)),
	}, nil
}
