package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-medscan/pkg/models"
)

// EventType represents the type of scan analysis event
type EventType string

const (
	// AnalysisStarted when a scan enters the pipeline
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when the pipeline produced a classification
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisFailed when the pipeline returned the failure envelope
	AnalysisFailed EventType = "analysis_failed"
	// ScanFetched when the scan image was retrieved
	ScanFetched EventType = "scan_fetched"
	// ScanFetchFailed when scan retrieval failed
	ScanFetchFailed EventType = "scan_fetch_failed"
)

// ScanEvent describes one lifecycle event of a scan analysis.
type ScanEvent struct {
	EventType      EventType     `json:"event_type"`
	Timestamp      time.Time     `json:"timestamp"`
	ScanURL        string        `json:"scan_url"`
	Prediction     string        `json:"prediction,omitempty"`
	RiskLevel      string        `json:"risk_level,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	Success        bool          `json:"success"`
	ErrorMessage   string        `json:"error_message,omitempty"`
}

// Observer receives scan events.
type Observer interface {
	OnEvent(ctx context.Context, event ScanEvent)
	Name() string
}

// Subject publishes scan events to subscribed observers.
type Subject interface {
	Subscribe(observer Observer)
	Notify(ctx context.Context, event ScanEvent)
}

// LoggingObserver writes every event to the structured log.
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles scan events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ScanEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"scan_url":        event.ScanURL,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.Prediction != "" {
		fields["prediction"] = event.Prediction
		fields["risk_level"] = event.RiskLevel
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	switch event.EventType {
	case AnalysisStarted:
		o.logger.WithFields(fields).Info("Scan analysis started")
	case AnalysisCompleted:
		o.logger.WithFields(fields).Info("Scan analysis completed")
	case AnalysisFailed:
		o.logger.WithFields(fields).Error("Scan analysis failed")
	case ScanFetched:
		o.logger.WithFields(fields).Debug("Scan fetched")
	case ScanFetchFailed:
		o.logger.WithFields(fields).Error("Scan fetch failed")
	default:
		o.logger.WithFields(fields).Info("Scan event occurred")
	}
}

// Name returns the observer name
func (o *LoggingObserver) Name() string {
	return "logging_observer"
}

// MetricsObserver aggregates counters over the analysis events, surfaced at
// the metrics endpoint.
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalAnalyses       int64
	completedAnalyses   int64
	failedAnalyses      int64
	abnormalFindings    int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles scan events by updating counters
func (o *MetricsObserver) OnEvent(ctx context.Context, event ScanEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AnalysisStarted:
		o.totalAnalyses++
	case AnalysisCompleted:
		o.completedAnalyses++
		o.totalProcessingTime += event.ProcessingTime
		if event.Prediction == models.PredictionCancer {
			o.abnormalFindings++
		}
	case AnalysisFailed:
		o.failedAnalyses++
	}
}

// Name returns the observer name
func (o *MetricsObserver) Name() string {
	return "metrics_observer"
}

// Metrics returns a snapshot of the current counters.
func (o *MetricsObserver) Metrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.completedAnalyses > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.completedAnalyses)
	}

	return map[string]interface{}{
		"total_analyses":          o.totalAnalyses,
		"completed_analyses":      o.completedAnalyses,
		"failed_analyses":         o.failedAnalyses,
		"abnormal_findings":       o.abnormalFindings,
		"avg_processing_time_sec": avgProcessingTime.Seconds(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Notify delivers the event to every subscribed observer.
func (p *EventPublisher) Notify(ctx context.Context, event ScanEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		observer.OnEvent(ctx, event)
	}
}
