// Package config holds the viper bindings for berth. Every setting can
// come from a flag, a BERTH_* environment variable, or an optional YAML
// config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"berth/internal/core/domain"
	"berth/internal/core/reconciler"
)

// Viper keys. Environment variables derive from these: "spec.hostPort"
// becomes BERTH_SPEC_HOSTPORT.
const (
	KeyImage         = "spec.image"
	KeyTag           = "spec.tag"
	KeyHostPort      = "spec.hostPort"
	KeyContainerPort = "spec.containerPort"
	KeyVolumePath    = "spec.volumePath"
	KeyMountPath     = "spec.mountPath"
	KeyName          = "spec.name"
	KeyBuild         = "spec.build"
	KeyBuildContext  = "spec.buildContext"
	KeyRepoURL       = "spec.repoUrl"
	KeyEnv           = "spec.env"

	KeyLogLevel   = "logLevel"
	KeyTimeout    = "timeout"
	KeyListenAddr = "listenAddr"
)

const envPrefix = "BERTH"

// Init wires viper to the environment and, when configFile is set or a
// berth.yaml is present in the working directory, to a config file.
func Init(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyTag, domain.DefaultTag)
	viper.SetDefault(KeyMountPath, domain.DefaultMountPath)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyTimeout, 5*time.Minute)
	viper.SetDefault(KeyListenAddr, ":3000")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
		return nil
	}

	viper.SetConfigName("berth")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// RegisterSpecFlags declares the DesiredState flags on a command's flag
// set. BindSpecFlags must run from the executed command so its flag set,
// not a sibling's, is the one viper reads.
func RegisterSpecFlags(flags *pflag.FlagSet) {
	flags.String("image", "", "image name to run")
	flags.String("tag", domain.DefaultTag, "image tag")
	flags.Uint16("host-port", 0, "host port to publish")
	flags.Uint16("container-port", 0, "container port to publish to")
	flags.String("volume", "", "host directory to mount (created if absent)")
	flags.String("mount", domain.DefaultMountPath, "in-container mount target")
	flags.String("name", "", "logical container name (container runs as <name>_container)")
	flags.Bool("build", false, "build the image before launching")
	flags.String("build-context", "", "local build context directory")
	flags.String("repo-url", "", "git repository to clone and build")
	flags.StringSlice("env", nil, "KEY=VALUE environment for the container")
}

// BindSpecFlags binds the spec flags to their viper keys.
func BindSpecFlags(flags *pflag.FlagSet) {
	bind := map[string]string{
		KeyImage:         "image",
		KeyTag:           "tag",
		KeyHostPort:      "host-port",
		KeyContainerPort: "container-port",
		KeyVolumePath:    "volume",
		KeyMountPath:     "mount",
		KeyName:          "name",
		KeyBuild:         "build",
		KeyBuildContext:  "build-context",
		KeyRepoURL:       "repo-url",
		KeyEnv:           "env",
	}
	for key, flag := range bind {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// DesiredState assembles the container spec from the bound sources.
// Port values are range-checked before narrowing so an out-of-range
// value fails here instead of wrapping around into a different valid
// port.
func DesiredState() (domain.DesiredState, error) {
	hostPort, err := port(KeyHostPort)
	if err != nil {
		return domain.DesiredState{}, err
	}
	containerPort, err := port(KeyContainerPort)
	if err != nil {
		return domain.DesiredState{}, err
	}

	return domain.DesiredState{
		Image:         viper.GetString(KeyImage),
		Tag:           viper.GetString(KeyTag),
		HostPort:      hostPort,
		ContainerPort: containerPort,
		VolumePath:    viper.GetString(KeyVolumePath),
		MountPath:     viper.GetString(KeyMountPath),
		Name:          viper.GetString(KeyName),
		Build:         viper.GetBool(KeyBuild),
		BuildContext:  viper.GetString(KeyBuildContext),
		RepoURL:       viper.GetString(KeyRepoURL),
		Env:           viper.GetStringSlice(KeyEnv),
	}, nil
}

func port(key string) (uint16, error) {
	value := viper.GetUint32(key)
	if value > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %s: port %d out of range [1,65535]",
			reconciler.ErrInvalidSpec, key, value)
	}
	return uint16(value), nil
}

// Timeout is the caller deadline wrapping one whole invocation.
func Timeout() time.Duration {
	return viper.GetDuration(KeyTimeout)
}

// LogLevel returns the configured log level string.
func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

// ListenAddr returns the serve listen address.
func ListenAddr() string {
	return viper.GetString(KeyListenAddr)
}
