package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	lookupEnv func(string) (string, bool)
	dotenv    []string
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
// Os arquivos dotenv informados são carregados antes das variáveis de ambiente;
// sem argumentos, tenta ".env" no diretório atual.
func NewConfigRepository(dotenv ...string) repository.ConfigRepository {
	return &ConfigRepositoryImpl{lookupEnv: os.LookupEnv, dotenv: dotenv}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// Load monta a configuração efetiva: arquivo opcional, depois variáveis de
// ambiente (que têm precedência), depois os valores padrão.
func (r *ConfigRepositoryImpl) Load(filePath string) (*types.Config, error) {
	// .env ausente não é erro
	_ = godotenv.Load(r.dotenv...)

	config := &types.Config{}
	if filePath != "" {
		loaded, err := r.LoadConfigFile(filePath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if err := r.applyEnv(config); err != nil {
		return nil, err
	}
	config.ApplyDefaults()
	return config, nil
}

func (r *ConfigRepositoryImpl) applyEnv(c *types.Config) error {
	strs := []struct {
		keys []string
		dst  *string
	}{
		{[]string{"AWS_REGION"}, &c.AWS.Region},
		{[]string{"AWS_PROFILE"}, &c.AWS.Profile},
		{[]string{"ATHENA_TABLE"}, &c.Athena.Table},
		{[]string{"ATHENA_DATABASE", "ATHENA_DATABSE"}, &c.Athena.Database},
		{[]string{"ATHENA_OUTPUT_LOCATION"}, &c.Athena.OutputLocation},
		{[]string{"ATHENA_WORKGROUP"}, &c.Athena.WorkGroup},
		{[]string{"EVENT_BRIDGE_BUS_NAME"}, &c.EventBridge.BusName},
		{[]string{"EVENT_BRIDGE_SOURCE_NAME"}, &c.EventBridge.Source},
		{[]string{"EVENT_BRIDGE_DETAIL_TYPE"}, &c.EventBridge.DetailType},
		{[]string{"NOTIFICATION_CHANNEL"}, &c.Notification.Channel},
		{[]string{"SENDER_EMAIL"}, &c.Notification.Sender},
		{[]string{"RECIPIENT_EMAILS"}, &c.Notification.Recipients},
		{[]string{"SNS_TOPIC_ARN"}, &c.Notification.TopicARN},
		{[]string{"EMAIL_SUBJECT"}, &c.Notification.Subject},
		{[]string{"LOG_LEVEL"}, &c.Logging.Level},
		{[]string{"LOG_FORMAT"}, &c.Logging.Format},
	}
	for _, s := range strs {
		if v, ok := r.first(s.keys...); ok {
			*s.dst = v
		}
	}

	durations := []struct {
		key string
		dst *types.Duration
	}{
		{"ATHENA_POLL_INTERVAL", &c.Athena.PollInterval},
		{"ATHENA_QUERY_TIMEOUT", &c.Athena.QueryTimeout},
	}
	for _, d := range durations {
		if v, ok := r.first(d.key); ok {
			if err := d.dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("error parsing %s: %w", d.key, err)
			}
		}
	}

	if v, ok := r.first("AWS_MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("error parsing AWS_MAX_ATTEMPTS: %w", err)
		}
		c.AWS.MaxAttempts = n
	}
	return nil
}

// first returns the first non-empty variable among keys.
func (r *ConfigRepositoryImpl) first(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := r.lookupEnv(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}
