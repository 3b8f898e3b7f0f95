// Package scheduler gerencia agendamentos do EventBridge Scheduler pelo nome.
// O cliente não é ligado a um recurso: o nome do agendamento é o argumento de
// cada operação e o grupo vem de params ou de InGroup.
package scheduler

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/scheduler"

	"github.com/raywall/fast-aws-toolkit/casing"
	"github.com/raywall/fast-aws-toolkit/clientkit"
	"github.com/raywall/fast-aws-toolkit/envelope"
)

// DefaultName é o nome do cliente no registry quando WithName não é usado.
const DefaultName = "scheduler"

// API é o subconjunto do *scheduler.Client usado pelo wrapper.
type API interface {
	GetSchedule(ctx context.Context, params *scheduler.GetScheduleInput, optFns ...func(*scheduler.Options)) (*scheduler.GetScheduleOutput, error)
	CreateSchedule(ctx context.Context, params *scheduler.CreateScheduleInput, optFns ...func(*scheduler.Options)) (*scheduler.CreateScheduleOutput, error)
	UpdateSchedule(ctx context.Context, params *scheduler.UpdateScheduleInput, optFns ...func(*scheduler.Options)) (*scheduler.UpdateScheduleOutput, error)
	DeleteSchedule(ctx context.Context, params *scheduler.DeleteScheduleInput, optFns ...func(*scheduler.Options)) (*scheduler.DeleteScheduleOutput, error)
}

type Option = clientkit.Option[API, scheduler.Options]

var (
	WithName          = clientkit.WithName[API, scheduler.Options]
	WithRequestID     = clientkit.WithRequestID[API, scheduler.Options]
	WithLogger        = clientkit.WithLogger[API, scheduler.Options]
	WithMetrics       = clientkit.WithMetrics[API, scheduler.Options]
	WithRegistry      = clientkit.WithRegistry[API, scheduler.Options]
	WithAWSConfig     = clientkit.WithAWSConfig[API, scheduler.Options]
	WithAPI           = clientkit.WithAPI[API, scheduler.Options]
	WithClientOptions = clientkit.WithClientOptions[API, scheduler.Options]
)

// campos devolvidos por GetSchedule que UpdateSchedule não aceita
var readOnly = []string{"arn", "creationDate", "lastModificationDate"}

// as tags de ecsParameters têm chaves definidas pelo usuário
var rules = []casing.Rule{casing.KeepKeys("tags")}

// Client gerencia schedules do EventBridge Scheduler.
type Client struct {
	clientkit.Base
	api   API
	group string
}

// New resolve o cliente do SDK. O nome do schedule é informado a cada chamada.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	s := clientkit.Apply(ctx, DefaultName, opts)
	api, err := s.Client(ctx, newAPI)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	return &Client{
		Base: clientkit.NewBase("SchedulerClient", s, nil),
		api:  api,
	}, nil
}

func newAPI(cfg aws.Config, fns ...func(*scheduler.Options)) API {
	return scheduler.NewFromConfig(cfg, fns...)
}

// InGroup devolve uma cópia do cliente que usa group como groupName padrão.
// params["groupName"] continua tendo precedência.
func (c *Client) InGroup(group string) *Client {
	cp := *c
	cp.group = group
	return &cp
}

func (c *Client) defaults() map[string]any {
	if c.group == "" {
		return nil
	}
	return map[string]any{"groupName": c.group}
}

func (c *Client) GetSchedule(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "getSchedule", meta(name, params))
	call.Start(nil)

	var in scheduler.GetScheduleInput
	if err := envelope.Decode(envelope.Build(c.defaults(), params, identity(name), rules...), &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.GetSchedule(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := envelope.Normalize(out, envelope.WithRules(rules...))
	call.Data(data)
	call.End()
	return data, nil
}

// CreateSchedule cria o agendamento. Params precisa trazer ao menos
// scheduleExpression, flexibleTimeWindow e target.
func (c *Client) CreateSchedule(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "createSchedule", meta(name, params))
	call.Start(params)

	var in scheduler.CreateScheduleInput
	if err := envelope.Decode(envelope.Build(c.defaults(), params, identity(name), rules...), &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.CreateSchedule(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := envelope.Normalize(out)
	call.Data(data)
	call.End()
	return data, nil
}

// UpdateSchedule lê o agendamento atual e o substitui pela combinação do
// estado atual com params. Campos não informados são mantidos.
func (c *Client) UpdateSchedule(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "updateSchedule", meta(name, params))
	call.Start(params)

	lookup := map[string]any{}
	if group, ok := params["groupName"]; ok {
		lookup["groupName"] = group
	}
	current, err := c.GetSchedule(ctx, name, lookup)
	if err != nil {
		return nil, call.Fail(err)
	}
	for _, k := range readOnly {
		delete(current, k)
	}

	var in scheduler.UpdateScheduleInput
	if err := envelope.Decode(envelope.Build(current, params, identity(name), rules...), &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.UpdateSchedule(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := envelope.Normalize(out)
	call.Data(data)
	call.End()
	return data, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "deleteSchedule", meta(name, params))
	call.Start(nil)

	var in scheduler.DeleteScheduleInput
	if err := envelope.Decode(envelope.Build(c.defaults(), params, identity(name), rules...), &in); err != nil {
		return nil, call.Fail(err)
	}

	out, err := c.api.DeleteSchedule(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := envelope.Normalize(out)
	call.Data(data)
	call.End()
	return data, nil
}

func identity(name string) map[string]any {
	return map[string]any{"name": name}
}

func meta(name string, params map[string]any) map[string]any {
	m := make(map[string]any, len(params)+1)
	for k, v := range params {
		m[k] = v
	}
	m["scheduleName"] = name
	return m
}
