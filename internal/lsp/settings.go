package lsp

import "encoding/json"

type serverSettings struct {
	enabled bool
	trace   bool
}

func defaultSettings() serverSettings {
	return serverSettings{enabled: true}
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	s.relintAll()
	return nil
}

func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings.Dashlint.Trace != nil {
		s.settings.trace = *settings.Dashlint.Trace
	}
	if settings.Dashlint.Enable != nil {
		s.settings.enabled = *settings.Dashlint.Enable
	}
}

func (s *Server) currentSettings() serverSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}
