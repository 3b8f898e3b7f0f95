// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package envloader preenche as structs de configuração dos clientes
// (TableConfig, BucketConfig, QueueConfig, BusConfig, FunctionConfig) a partir
// de variáveis de ambiente, usando as tags `env` e `envDefault`.
//
// A tag `env` aceita a opção `required`: `env:"SQS_QUEUE_URL,required"` falha
// com *MissingVarError quando a variável não existe e não há default.
//
// Tipos suportados: string, inteiros, uint, bool, float, time.Duration,
// []string (separado por vírgula), structs aninhadas e ponteiros para struct.
//
// Exemplo:
//
//	type QueueConfig struct {
//	    QueueURL string `env:"SQS_QUEUE_URL,required"`
//	}
//
//	var cfg QueueConfig
//	if err := envloader.Load(&cfg); err != nil {
//	    log.Fatal().Err(err).Msg("config")
//	}
package envloader
