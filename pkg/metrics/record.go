package metrics

import (
	"strconv"
	"time"
)

// RecordHTTPRequest records a completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments the in-flight gauge
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements the in-flight gauge
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

// RecordKafkaPublish records a Kafka event publish attempt
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, status).Inc()
}

// RecordOrderSubmitted records a warehouse order submission
func (m *Metrics) RecordOrderSubmitted(orderType string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.OrdersSubmitted.WithLabelValues(m.serviceName, orderType, status).Inc()
}

// RecordItemPicked records a replenishment pick
func (m *Metrics) RecordItemPicked(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ItemsPicked.WithLabelValues(m.serviceName, status).Inc()
}

// RecordAdjustment records an ad-hoc inventory adjustment
func (m *Metrics) RecordAdjustment(operationType string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.AdjustmentsApplied.WithLabelValues(m.serviceName, operationType, status).Inc()
}

// RecordPartnerNotification records a partner notification attempt
func (m *Metrics) RecordPartnerNotification(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.PartnerNotifications.WithLabelValues(m.serviceName, status).Inc()
}
