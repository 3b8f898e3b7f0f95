package main

import (
	"context"
	"fmt"

	"github.com/raywall/fast-aws-toolkit/dyndb"
	"github.com/raywall/fast-aws-toolkit/eventbus"
	"github.com/raywall/fast-aws-toolkit/lambdainvoke"
	"github.com/raywall/fast-aws-toolkit/s3json"
	"github.com/raywall/fast-aws-toolkit/scheduler"
	"github.com/raywall/fast-aws-toolkit/sqsjson"
)

func (a *app) invoke(ctx context.Context, args []string) error {
	fs := newFlagSet("invoke")
	var f commonFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	name, conf, err := pick("lambda", a.cfg.Clients.Lambda, f.client)
	if err != nil {
		return err
	}
	var input map[string]any
	if err := f.decodeData(&input); err != nil {
		return err
	}
	params, err := f.paramsMap()
	if err != nil {
		return err
	}

	client, err := lambdainvoke.New(ctx, lambdainvoke.FunctionConfig{FunctionName: conf.FunctionName},
		lambdainvoke.WithName(name),
		lambdainvoke.WithRegistry(a.registry),
		lambdainvoke.WithAWSConfig(a.awsCfg),
		lambdainvoke.WithLogger(a.log),
		lambdainvoke.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}

	res, err := client.InvokeJSON(ctx, input, params)
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *app) schedule(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: schedule get|create|update|delete", errUsage)
	}
	op := args[0]

	fs := newFlagSet("schedule " + op)
	var f commonFlags
	f.register(fs)
	scheduleName := fs.String("name", "", "nome do agendamento")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *scheduleName == "" {
		return fmt.Errorf("%w: -name is required", errUsage)
	}
	params, err := f.paramsMap()
	if err != nil {
		return err
	}

	name, group := scheduler.DefaultName, ""
	if len(a.cfg.Clients.Scheduler) > 0 || f.client != "" {
		n, conf, err := pick("scheduler", a.cfg.Clients.Scheduler, f.client)
		if err != nil {
			return err
		}
		name, group = n, conf.GroupName
	}

	client, err := scheduler.New(ctx,
		scheduler.WithName(name),
		scheduler.WithRegistry(a.registry),
		scheduler.WithAWSConfig(a.awsCfg),
		scheduler.WithLogger(a.log),
		scheduler.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}
	if group != "" {
		client = client.InGroup(group)
	}

	var res map[string]any
	switch op {
	case "get":
		res, err = client.GetSchedule(ctx, *scheduleName, params)
	case "create":
		res, err = client.CreateSchedule(ctx, *scheduleName, params)
	case "update":
		res, err = client.UpdateSchedule(ctx, *scheduleName, params)
	case "delete":
		res, err = client.DeleteSchedule(ctx, *scheduleName, params)
	default:
		return fmt.Errorf("%w: unknown schedule operation %q", errUsage, op)
	}
	if err != nil {
		return err
	}
	return a.print(res)
}

// eventInput aceita time em ISO-8601 parcial (ex.: 2024-01-02T03:04).
type eventInput struct {
	Time        string   `json:"time"`
	Source      string   `json:"source"`
	Resources   []string `json:"resources"`
	DetailType  string   `json:"detailType"`
	Detail      any      `json:"detail"`
	TraceHeader string   `json:"traceHeader"`
}

func (a *app) events(ctx context.Context, args []string) error {
	fs := newFlagSet("events")
	var f commonFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	name, conf, err := pick("eventbridge", a.cfg.Clients.EventBridge, f.client)
	if err != nil {
		return err
	}
	var inputs []eventInput
	if err := f.decodeData(&inputs); err != nil {
		return err
	}
	params, err := f.paramsMap()
	if err != nil {
		return err
	}

	events := make([]eventbus.Event, 0, len(inputs))
	for _, in := range inputs {
		ev := eventbus.Event{
			Source:      in.Source,
			Resources:   in.Resources,
			DetailType:  in.DetailType,
			Detail:      in.Detail,
			TraceHeader: in.TraceHeader,
		}
		if in.Time != "" {
			if ev.Time, err = eventbus.ParseTime(in.Time); err != nil {
				return err
			}
		}
		events = append(events, ev)
	}

	client, err := eventbus.New(ctx, eventbus.BusConfig{EventBusName: conf.EventBusName},
		eventbus.WithName(name),
		eventbus.WithRegistry(a.registry),
		eventbus.WithAWSConfig(a.awsCfg),
		eventbus.WithLogger(a.log),
		eventbus.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}

	res, err := client.PutEvents(ctx, events, params)
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *app) sqs(ctx context.Context, args []string) error {
	fs := newFlagSet("sqs")
	var f commonFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	name, conf, err := pick("sqs", a.cfg.Clients.SQS, f.client)
	if err != nil {
		return err
	}
	var input any
	if err := f.decodeData(&input); err != nil {
		return err
	}
	params, err := f.paramsMap()
	if err != nil {
		return err
	}

	client, err := sqsjson.New(ctx, sqsjson.QueueConfig{QueueURL: conf.QueueURL},
		sqsjson.WithName(name),
		sqsjson.WithRegistry(a.registry),
		sqsjson.WithAWSConfig(a.awsCfg),
		sqsjson.WithLogger(a.log),
		sqsjson.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}

	res, err := client.SendMessageJSON(ctx, input, params)
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *app) s3(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: s3 put|get", errUsage)
	}
	op := args[0]

	fs := newFlagSet("s3 " + op)
	var f commonFlags
	f.register(fs)
	key := fs.String("key", "", "chave do objeto")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *key == "" {
		return fmt.Errorf("%w: -key is required", errUsage)
	}

	name, conf, err := pick("s3", a.cfg.Clients.S3, f.client)
	if err != nil {
		return err
	}
	params, err := f.paramsMap()
	if err != nil {
		return err
	}

	client, err := s3json.New(ctx, s3json.BucketConfig{Bucket: conf.Bucket},
		s3json.WithName(name),
		s3json.WithRegistry(a.registry),
		s3json.WithAWSConfig(a.awsCfg),
		s3json.WithLogger(a.log),
		s3json.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}

	switch op {
	case "put":
		var input any
		if err := f.decodeData(&input); err != nil {
			return err
		}
		res, err := client.PutJSON(ctx, *key, input, params)
		if err != nil {
			return err
		}
		return a.print(res)
	case "get":
		data, meta, err := client.GetJSON(ctx, *key, params)
		if err != nil {
			return err
		}
		return a.print(map[string]any{"data": data, "meta": meta})
	default:
		return fmt.Errorf("%w: unknown s3 operation %q", errUsage, op)
	}
}

func (a *app) dynamodb(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: dynamodb get|put|update|delete|query", errUsage)
	}
	op := args[0]

	fs := newFlagSet("dynamodb " + op)
	var f commonFlags
	f.register(fs)
	keyArg := fs.String("key", "", "chave JSON (ou @arquivo)")
	hash := fs.String("hash", "", "query: valor da hash key")
	prefix := fs.String("begins", "", "query: prefixo da range key")
	index := fs.String("index", "", "query: índice secundário")
	limit := fs.Int("limit", 0, "query: máximo de itens")
	page := fs.String("page", "", "query: token da próxima página")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	name, conf, err := pick("dynamodb", a.cfg.Clients.DynamoDB, f.client)
	if err != nil {
		return err
	}
	params, err := f.paramsMap()
	if err != nil {
		return err
	}

	client, err := dyndb.New(ctx, dyndb.TableConfig{
		TableName:    conf.TableName,
		HashKey:      conf.HashKey,
		RangeKey:     conf.RangeKey,
		TTLAttribute: conf.TTLAttribute,
		TTL:          conf.TTL,
	},
		dyndb.WithName(name),
		dyndb.WithRegistry(a.registry),
		dyndb.WithAWSConfig(a.awsCfg),
		dyndb.WithLogger(a.log),
		dyndb.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}

	key := func() (map[string]any, error) {
		if *keyArg == "" {
			return nil, fmt.Errorf("%w: -key is required", errUsage)
		}
		var k map[string]any
		if err := readJSON(*keyArg, &k); err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		return k, nil
	}

	switch op {
	case "get":
		k, err := key()
		if err != nil {
			return err
		}
		item, meta, err := client.Get(ctx, k, params)
		if err != nil {
			return err
		}
		return a.print(map[string]any{"item": item, "meta": meta})

	case "put":
		var item map[string]any
		if err := f.decodeData(&item); err != nil {
			return err
		}
		res, err := client.Put(ctx, item, params)
		if err != nil {
			return err
		}
		return a.print(res)

	case "update", "delete":
		k, err := key()
		if err != nil {
			return err
		}
		var res map[string]any
		if op == "update" {
			res, err = client.Update(ctx, k, params)
		} else {
			res, err = client.Delete(ctx, k, params)
		}
		if err != nil {
			return err
		}
		return a.print(res)

	case "query":
		if params != nil {
			items, meta, err := client.Query(ctx, params)
			if err != nil {
				return err
			}
			token, err := dyndb.PageToken(meta)
			if err != nil {
				return err
			}
			return a.print(map[string]any{"items": items, "nextPage": token})
		}
		if *hash == "" {
			return fmt.Errorf("%w: query needs -hash or -params", errUsage)
		}

		qb := client.NewQuery().KeyEqual(client.Schema().HashKey(), *hash).LastKey(*page)
		if *prefix != "" && client.Schema().RangeKey() != "" {
			qb.KeyBeginsWith(client.Schema().RangeKey(), *prefix)
		}
		if *index != "" {
			qb.Index(*index)
		}
		if *limit > 0 {
			qb.Limit(int32(*limit))
		}
		items, token, err := qb.Exec(ctx)
		if err != nil {
			return err
		}
		return a.print(map[string]any{"items": items, "nextPage": token})

	default:
		return fmt.Errorf("%w: unknown dynamodb operation %q", errUsage, op)
	}
}
