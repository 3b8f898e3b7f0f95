package metrics

// Provider define o contrato para envio de métricas.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Métricas emitidas por chamada de cliente, com tags client e method.
const (
	RequestCount = "aws_client.request"
	ErrorCount   = "aws_client.error"
	LatencyMs    = "aws_client.latency_ms"
)
