package orchestrator

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ClipFinance/btc-bridge/bridge"
)

// Builder is a builder pattern implementation for the orchestrator.
// It allows setting the bridge service, the classifier, the settler and
// the optional logger and recorder.
type Builder struct {
	requests   *bridge.RequestBuilder // Transfer request builder.
	service    BridgeService          // Remote bridge service.
	classifier *bridge.Classifier     // Bridge reply classifier.
	settler    Settler                // OTA settlement driver.
	logger     *logrus.Logger         // Logger for logging events.
	recorder   AttemptRecorder        // Attempt result recorder.
}

// NewBuilder creates a new orchestrator builder instance.
//
// Parameters:
// - requests: the transfer request builder.
//
// Returns:
// - *Builder: a new Builder instance.
func NewBuilder(requests *bridge.RequestBuilder) *Builder {
	return &Builder{
		requests: requests,
	}
}

// WithBridgeService sets the remote bridge service.
//
// Parameters:
// - service: the bridge service implementation.
//
// Returns:
// - *Builder: the updated Builder instance.
func (b *Builder) WithBridgeService(service BridgeService) *Builder {
	b.service = service
	return b
}

// WithClassifier sets the bridge reply classifier.
//
// Parameters:
// - classifier: the classifier.
//
// Returns:
// - *Builder: the updated Builder instance.
func (b *Builder) WithClassifier(classifier *bridge.Classifier) *Builder {
	b.classifier = classifier
	return b
}

// WithSettler sets the OTA settlement driver.
//
// Parameters:
// - settler: the settlement implementation.
//
// Returns:
// - *Builder: the updated Builder instance.
func (b *Builder) WithSettler(settler Settler) *Builder {
	b.settler = settler
	return b
}

// WithLogger sets the logger. A discarding logger is used otherwise.
func (b *Builder) WithLogger(logger *logrus.Logger) *Builder {
	b.logger = logger
	return b
}

// WithRecorder sets the attempt result recorder.
func (b *Builder) WithRecorder(recorder AttemptRecorder) *Builder {
	b.recorder = recorder
	return b
}

// Build creates the orchestrator.
//
// Returns:
// - *Orchestrator: a new orchestrator in the Idle state.
// - error: an error if a required component is missing.
func (b *Builder) Build() (*Orchestrator, error) {
	switch {
	case b.requests == nil:
		return nil, errors.New("request builder is required")
	case b.service == nil:
		return nil, errors.New("bridge service is required")
	case b.classifier == nil:
		return nil, errors.New("classifier is required")
	case b.settler == nil:
		return nil, errors.New("settler is required")
	}

	logger := b.logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return newOrchestrator(b.requests, b.service, b.classifier, b.settler, logger, b.recorder), nil
}
