package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/mqttclient"

	"go.uber.org/zap"
)

// Ingestor 实时上报入库接口（由 ingest.Pipeline 实现）
type Ingestor interface {
	IngestPayload(ctx context.Context, payload map[string]any) (int64, error)
}

// MQTTConsumer 订阅设备上报主题，逐条走与 HTTP 直报相同的规范化入库路径。
// 单条消息失败只记录，不影响后续消息。
type MQTTConsumer struct {
	client   *mqttclient.Client
	ingestor Ingestor
	topic    string
	qos      byte
	logger   *zap.Logger
}

func NewMQTTConsumer(client *mqttclient.Client, ingestor Ingestor, topic string, qos byte, logger *zap.Logger) *MQTTConsumer {
	return &MQTTConsumer{
		client:   client,
		ingestor: ingestor,
		topic:    topic,
		qos:      qos,
		logger:   logger,
	}
}

// Start 订阅主题
func (c *MQTTConsumer) Start(ctx context.Context) error {
	handler := func(topic string, payload []byte) error {
		return c.handleMessage(ctx, topic, payload)
	}
	if err := c.client.Subscribe(c.topic, c.qos, handler); err != nil {
		return fmt.Errorf("failed to start MQTT consumer: %w", err)
	}
	c.logger.Info("MQTT consumer started", zap.String("topic", c.topic))
	return nil
}

// handleMessage 消息体支持单个 JSON 对象或对象数组
func (c *MQTTConsumer) handleMessage(ctx context.Context, topic string, payload []byte) error {
	var single map[string]any
	if err := json.Unmarshal(payload, &single); err == nil && single != nil {
		c.ingestOne(ctx, topic, single)
		return nil
	}

	var batch []map[string]any
	if err := json.Unmarshal(payload, &batch); err == nil {
		for _, item := range batch {
			c.ingestOne(ctx, topic, item)
		}
		return nil
	}

	return fmt.Errorf("unrecognized message body on topic %s", topic)
}

func (c *MQTTConsumer) ingestOne(ctx context.Context, topic string, payload map[string]any) {
	id, err := c.ingestor.IngestPayload(ctx, payload)
	if err != nil {
		c.logger.Warn("Dropped MQTT reading",
			zap.String("topic", topic), zap.Error(err))
		return
	}
	c.logger.Debug("Ingested MQTT reading",
		zap.String("topic", topic), zap.Int64("id", id))
}

// Stop 断开 MQTT 连接
func (c *MQTTConsumer) Stop() {
	c.client.Disconnect()
	c.logger.Info("MQTT consumer stopped")
}
