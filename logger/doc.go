// Package logger provides structured logging for retrokit using zerolog.
//
// Every layer logs through a component-scoped *Logger (httpapi, transport,
// config). Outside a configured application the global logger writes
// console output at info level, so debug dispatch logs stay quiet unless
// enabled.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpapi")
//	log.Debug("dispatch", logger.Fields("method", "GET", "status", 200))
package logger
