package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"valeod/internal/models"
	"valeod/internal/onlymonster"
	"valeod/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockStorage implements persistence.Storage in memory.
type MockStorage struct {
	mu        sync.Mutex
	Data      map[string]*models.ChatMapping
	LoadErr   bool
	SaveErr   error
	SaveCalls int
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Data: make(map[string]*models.ChatMapping)}
}

func (m *MockStorage) LoadAll(ctx context.Context) map[string]*models.ChatMapping {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*models.ChatMapping, len(m.Data))
	if m.LoadErr {
		return out
	}
	for k, v := range m.Data {
		out[k] = v
	}
	return out
}

func (m *MockStorage) SaveAll(ctx context.Context, mappings map[string]*models.ChatMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Data = make(map[string]*models.ChatMapping, len(mappings))
	for k, v := range mappings {
		m.Data[k] = v
	}
	return nil
}

func (m *MockStorage) Backend() string { return "mock" }

// MockAnalyticsClient implements onlymonster.ClientInterface with
// per-account injectable data.
type MockAnalyticsClient struct {
	mu sync.Mutex

	TransactionsData map[string][]onlymonster.Transaction
	TransactionsErr  map[string]error
	SubscribersData  map[string]*onlymonster.SubscriberCounts
	SubscribersErr   map[string]error
	ChattersData     map[string][]*models.ChatterStats
	ChattersErr      map[string]error
	FansData         map[string][]*models.OnlineFan
	FansErr          map[string]error

	FanCalls []string
}

func accountKey(platform, accountID string) string {
	return platform + ":" + accountID
}

func (m *MockAnalyticsClient) Transactions(ctx context.Context, platform, accountID string, start, end time.Time) ([]onlymonster.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(platform, accountID)
	if err := m.TransactionsErr[key]; err != nil {
		return nil, err
	}
	return m.TransactionsData[key], nil
}

func (m *MockAnalyticsClient) Subscribers(ctx context.Context, platform, accountID string, start, end time.Time) (*onlymonster.SubscriberCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(platform, accountID)
	if err := m.SubscribersErr[key]; err != nil {
		return nil, err
	}
	if counts, ok := m.SubscribersData[key]; ok {
		return counts, nil
	}
	return &onlymonster.SubscriberCounts{}, nil
}

func (m *MockAnalyticsClient) ChatterPerformance(ctx context.Context, platform, accountID string, start, end time.Time) ([]*models.ChatterStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(platform, accountID)
	if err := m.ChattersErr[key]; err != nil {
		return nil, err
	}
	return m.ChattersData[key], nil
}

func (m *MockAnalyticsClient) OnlineFans(ctx context.Context, platform, accountID string) ([]*models.OnlineFan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(platform, accountID)
	m.FanCalls = append(m.FanCalls, key)
	if err := m.FansErr[key]; err != nil {
		return nil, err
	}
	return m.FansData[key], nil
}

// MockSink implements sink.Sink and records sent messages.
type MockSink struct {
	mu      sync.Mutex
	Sent    []SentMessage
	SendErr error
}

type SentMessage struct {
	DestinationID string
	Text          string
}

func (m *MockSink) Send(ctx context.Context, destinationID, text string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{DestinationID: destinationID, Text: text})
	return nil
}

func (m *MockSink) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// MockDeduper implements alerts.DedupCacheInterface with a plain map
// and no expiry.
type MockDeduper struct {
	mu       sync.Mutex
	Recorded map[string]bool
}

func NewMockDeduper() *MockDeduper {
	return &MockDeduper{Recorded: make(map[string]bool)}
}

func (m *MockDeduper) ShouldAlert(chatID, fanID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.Recorded[chatID+":"+fanID]
}

func (m *MockDeduper) RecordAlert(chatID, fanID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recorded[chatID+":"+fanID] = true
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu              sync.Mutex
	RequestsTotal   map[string]int
	ReportsSent     map[string]int
	ReportsFailed   map[string]int
	AlertsSent      int
	AlertsSuppress  int
	ChatsTracked    int
	PassDurations   map[string]int
	RequestDuration int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		RequestsTotal: make(map[string]int),
		ReportsSent:   make(map[string]int),
		ReportsFailed: make(map[string]int),
		PassDurations: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsTotal[endpoint+" "+strconv.Itoa(status)]++
}

func (m *MockMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestDuration++
}

func (m *MockMetrics) IncReportsSent(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportsSent[kind]++
}

func (m *MockMetrics) IncReportFailures(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportsFailed[kind]++
}

func (m *MockMetrics) IncAlertsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AlertsSent++
}

func (m *MockMetrics) IncAlertsSuppressed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AlertsSuppress++
}

func (m *MockMetrics) ObservePassDuration(job string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PassDurations[job]++
}

func (m *MockMetrics) SetChatsTracked(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatsTracked = n
}
