package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	billsCreated metric.Int64Counter
	billPrints   metric.Int64Counter
	schemaSaves  metric.Int64Counter
	priceSaves   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "vulca"
	}
	meter := provider.Meter(name)

	billsCreated, err := meter.Int64Counter("vulca_bills_created_total")
	if err != nil {
		return nil, err
	}
	billPrints, err := meter.Int64Counter("vulca_bill_prints_total")
	if err != nil {
		return nil, err
	}
	schemaSaves, err := meter.Int64Counter("vulca_schema_saves_total")
	if err != nil {
		return nil, err
	}
	priceSaves, err := meter.Int64Counter("vulca_price_saves_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		billsCreated: billsCreated,
		billPrints:   billPrints,
		schemaSaves:  schemaSaves,
		priceSaves:   priceSaves,
	}, nil
}

// RecordBillCreated increments bill creations.
func (m *Metrics) RecordBillCreated(ctx context.Context, companyID string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("company_id", strings.TrimSpace(companyID)))
	m.billsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBillPrint increments print renderings per template.
func (m *Metrics) RecordBillPrint(ctx context.Context, companyID, template string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("company_id", strings.TrimSpace(companyID)),
		attribute.String("template", strings.TrimSpace(template)),
	)
	m.billPrints.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSchemaSave increments schema saves.
func (m *Metrics) RecordSchemaSave(ctx context.Context, companyID string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("company_id", strings.TrimSpace(companyID)))
	m.schemaSaves.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPriceSave increments price table saves.
func (m *Metrics) RecordPriceSave(ctx context.Context, companyID string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("company_id", strings.TrimSpace(companyID)))
	m.priceSaves.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"company_id":  {},
	"endpoint":    {},
	"status_code": {},
	"template":    {},
	"reason":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
