// Package casing converte nomes de chaves entre a convenção lógica usada pelos
// chamadores desta biblioteca (camelCase) e a convenção de wire esperada pelos
// SDKs da AWS (PascalCase).
//
// A conversão é recursiva sobre map[string]any, []any e []map[string]any.
// Escalares, []byte, time.Time e qualquer outro tipo desconhecido passam sem
// alteração.
//
// Subárvores opacas (itens do DynamoDB, metadados de usuário do S3) são
// preservadas com Keep; KeepKeys preserva apenas os nomes filhos e continua
// convertendo os valores (atributos de mensagem do SQS).
//
//	wire := casing.ToWire(map[string]any{
//		"messageBody": "{}",
//		"messageAttributes": map[string]any{
//			"reqId": map[string]any{"dataType": "String", "stringValue": "abc"},
//		},
//	}, casing.KeepKeys("MessageAttributes"))
//	// {"MessageBody": "{}", "MessageAttributes": {"reqId": {"DataType": "String", "StringValue": "abc"}}}
package casing
