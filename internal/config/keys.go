package config

// RedisKeys builds every key and queue name the application stores in Redis. All of
// them share one namespace so several deployments can use the same Redis database.
type RedisKeys struct {
	prefix string
}

// NewRedisKeys returns key builders under namespace, e.g. "questbank".
func NewRedisKeys(namespace string) RedisKeys {
	if namespace == "" {
		return RedisKeys{}
	}
	return RedisKeys{prefix: namespace + ":"}
}

// Session holds the serialized state of one compose session.
func (k RedisKeys) Session(sessionID string) string {
	return k.prefix + "session:" + sessionID + ":state"
}

// AppendRate counts question appends of one client in the current window.
func (k RedisKeys) AppendRate(clientIP string) string {
	return k.prefix + "ratelimit:append:" + clientIP
}

// ExportLogQueue is the list drained by the export log worker.
func (k RedisKeys) ExportLogQueue() string {
	return k.prefix + "export_log_queue"
}

// Keys is the process-wide namespace, set from REDIS_KEY_PREFIX by Load.
var Keys = NewRedisKeys("questbank")
