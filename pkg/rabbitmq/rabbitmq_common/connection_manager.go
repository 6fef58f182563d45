package rabbitmq_common

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConnectionManager держит одно соединение на процесс и раздает из него каналы.
// Производитель и потребитель получают каналы через GetChannel.
type ConnectionManager struct {
	cfg        Config
	connection *amqp.Connection
	mutex      sync.RWMutex
	stop       chan struct{}
	stopOnce   sync.Once

	Logger Logger
}

// NewConnectionManager подключается к брокеру и запускает фоновое переподключение.
func NewConnectionManager(cfg Config, logger Logger) (*ConnectionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNoopLogger()
	}

	m := &ConnectionManager{
		cfg:    cfg,
		stop:   make(chan struct{}),
		Logger: logger,
	}

	conn, err := m.getConnection()
	if err != nil {
		logger.Error(err, "Initial connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}

	go m.watch(conn)
	return m, nil
}

// getConnection возвращает живое соединение или устанавливает новое
func (m *ConnectionManager) getConnection() (*amqp.Connection, error) {
	m.mutex.RLock()
	if m.connection != nil && !m.connection.IsClosed() {
		conn := m.connection
		m.mutex.RUnlock()
		return conn, nil
	}
	m.mutex.RUnlock()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// другой поток мог успеть переподключиться
	if m.connection != nil && !m.connection.IsClosed() {
		return m.connection, nil
	}

	m.Logger.Debug("ConnectionManager: connecting")
	conn, err := amqp.Dial(m.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ConnectionManager: failed to dial RabbitMQ: %w", err)
	}
	m.connection = conn
	m.Logger.Info("ConnectionManager: connected")
	return conn, nil
}

// GetChannel открывает новый канал на общем соединении
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := m.getConnection()
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("ConnectionManager: failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

// watch ждет закрытия соединения брокером и переподключается с паузой,
// пока не будет вызван Close.
func (m *ConnectionManager) watch(conn *amqp.Connection) {
	for {
		closed := conn.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-m.stop:
			return
		case amqpErr, ok := <-closed:
			if !ok || amqpErr == nil {
				// штатное закрытие через Close
				return
			}
			m.Logger.Warn("ConnectionManager: connection lost", "reason", amqpErr.Reason, "code", amqpErr.Code)
		}

		for {
			select {
			case <-m.stop:
				return
			case <-time.After(m.cfg.reconnectInterval()):
			}

			next, err := m.getConnection()
			if err != nil {
				m.Logger.Error(err, "ConnectionManager: reconnect failed")
				continue
			}
			conn = next
			break
		}
	}
}

// Close останавливает переподключение и закрывает соединение
func (m *ConnectionManager) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.connection == nil || m.connection.IsClosed() {
		m.Logger.Debug("ConnectionManager: connection was already closed or not established")
		return nil
	}

	m.Logger.Debug("ConnectionManager: closing the connection")
	if err := m.connection.Close(); err != nil {
		m.Logger.Error(err, "ConnectionManager: failed to close connection properly")
		return err
	}
	m.Logger.Info("ConnectionManager: connection closed")
	return nil
}
