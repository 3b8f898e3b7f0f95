// Package dyndb é o wrapper do DynamoDB orientado a documentos: itens e chaves
// são map[string]any e a conversão para AttributeValue fica a cargo do pacote
// attributevalue do SDK.
//
// A tabela é descrita por TableConfig. HashKey é obrigatória e RangeKey é
// opcional; ambas são validadas na construção, e toda operação que recebe um
// item ou uma chave confere a presença delas antes de chamar a AWS.
//
// Operações:
//   - Get, Put, Update, Delete: item único.
//   - Query: consulta com params livres ou pelo QueryBuilder.
//   - TransactGet, TransactWrite: transações na mesma tabela, com resultado na
//     ordem da entrada.
//
// Leituras devolvem (dados, metadados). Nomes de atributos dos itens nunca
// mudam de casing; o restante da resposta vem em camelCase.
//
// Exemplo:
//
//	users, err := dyndb.New(ctx, dyndb.TableConfig{TableName: "users", HashKey: "id"},
//		dyndb.WithRegistry(reg),
//	)
//	if err != nil {
//		return err
//	}
//
//	upd, err := dyndb.NewUpdate().Set("email", "a@b.c").Add("logins", 1).Params()
//	if err != nil {
//		return err
//	}
//	_, err = users.Update(ctx, map[string]any{"id": "42"}, upd)
//
//	items, meta, err := users.NewQuery().KeyEqual("id", "42").Limit(10).Exec(ctx)
package dyndb
