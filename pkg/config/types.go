package config

import "time"

// Config representa o arquivo YAML que descreve os clientes AWS de uma aplicação.
type Config struct {
	AWS     AWSConf     `yaml:"aws"`
	Logging LoggingConf `yaml:"logging"`
	Metrics MetricsConf `yaml:"metrics"`
	Clients ClientsConf `yaml:"clients"`
}

// AWSConf controla o carregamento do aws.Config compartilhado.
type AWSConf struct {
	Region  string `yaml:"region" env:"AWS_REGION"`
	Profile string `yaml:"profile" env:"AWS_PROFILE"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool     `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string   `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string   `yaml:"namespace"`
	Tags      []string `yaml:"tags"`
}

// ClientsConf agrupa os clientes por serviço. A chave de cada mapa é o nome
// lógico do cliente, usado também como chave no registry.
type ClientsConf struct {
	DynamoDB    map[string]DynamoDBConf    `yaml:"dynamodb" validate:"dive"`
	S3          map[string]S3Conf          `yaml:"s3" validate:"dive"`
	SQS         map[string]SQSConf         `yaml:"sqs" validate:"dive"`
	EventBridge map[string]EventBridgeConf `yaml:"eventbridge" validate:"dive"`
	Lambda      map[string]LambdaConf      `yaml:"lambda" validate:"dive"`
	Scheduler   map[string]SchedulerConf   `yaml:"scheduler" validate:"dive"`
}

type DynamoDBConf struct {
	TableName string `yaml:"table_name" validate:"required"`
	HashKey   string `yaml:"hash_key" validate:"required"`
	RangeKey  string `yaml:"range_key"`

	TTLAttribute string        `yaml:"ttl_attribute" validate:"required_with=TTL"`
	TTL          time.Duration `yaml:"ttl"`
}

type S3Conf struct {
	Bucket string `yaml:"bucket" validate:"required"`
}

type SQSConf struct {
	QueueURL string `yaml:"queue_url" validate:"required,url"`
}

type EventBridgeConf struct {
	EventBusName string `yaml:"event_bus_name" validate:"required"`
}

type LambdaConf struct {
	FunctionName string `yaml:"function_name" validate:"required"`
}

type SchedulerConf struct {
	GroupName string `yaml:"group_name"`
}

// Names devolve todos os nomes lógicos configurados, com repetições.
func (c ClientsConf) Names() []string {
	var names []string
	for name := range c.DynamoDB {
		names = append(names, name)
	}
	for name := range c.S3 {
		names = append(names, name)
	}
	for name := range c.SQS {
		names = append(names, name)
	}
	for name := range c.EventBridge {
		names = append(names, name)
	}
	for name := range c.Lambda {
		names = append(names, name)
	}
	for name := range c.Scheduler {
		names = append(names, name)
	}
	return names
}
