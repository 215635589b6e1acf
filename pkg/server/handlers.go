package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/raykavin/solscout/pkg/core"
)

// handleRoot reports that the bot is alive
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.writeJSON(w, map[string]string{"message": "Solana Scout Bot is running!"})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.status == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := s.status.Status()

	// Consider unhealthy once two scan intervals pass without a scan
	staleAfter := 2 * s.settings.ScanInterval
	if status.LastScan.IsZero() || time.Since(status.LastScan) > staleAfter {
		w.WriteHeader(http.StatusServiceUnavailable)
		if !status.LastScan.IsZero() {
			_, err := w.Write([]byte(status.LastScan.String()))
			if err != nil {
				s.log.Error("Failed to write health status: ", err)
			}
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleTest sends a test message through the notifier
func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	if s.notifier == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no notifier configured")
		return
	}

	s.notifier.Notify("Test message from bot")
	s.writeJSON(w, map[string]string{"message": "Test message sent successfully!"})
}

// handleBotInfo reports the notification bot identity and target chat
func (s *Server) handleBotInfo(w http.ResponseWriter, _ *http.Request) {
	identifier, ok := s.notifier.(core.Identifier)
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "no identifiable notifier configured")
		return
	}

	info, err := identifier.Info()
	if err != nil {
		s.log.WithError(err).Error("failed to get bot info")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, info)
}

// handleAlerts lists persisted alerts as JSON or CSV
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.storage.Alerts(r.Context())
	if err != nil {
		s.log.WithError(err).Error("failed to load alerts")
		s.writeError(w, http.StatusInternalServerError, "failed to load alerts")
		return
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n < len(alerts) {
			alerts = alerts[len(alerts)-n:]
		}
	}

	if r.URL.Query().Get("format") == "csv" {
		s.writeAlertsCSV(w, alerts)
		return
	}

	s.writeJSON(w, alerts)
}

// writeAlertsCSV streams alerts in CSV form
func (s *Server) writeAlertsCSV(w http.ResponseWriter, alerts []*core.Alert) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=alerts.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"coin_name", "symbol", "token_address", "pair_address",
		"chain_id", "volume_usd", "price_usd", "pair_created", "alerted_at",
	}); err != nil {
		s.log.Error("Failed to write CSV header: ", err)
		return
	}

	for _, alert := range alerts {
		record := []string{
			alert.CoinName,
			alert.Symbol,
			alert.TokenAddress,
			alert.PairAddress,
			alert.ChainID,
			fmt.Sprintf("%.2f", alert.VolumeUSD),
			fmt.Sprintf("%.8f", alert.PriceUSD),
			alert.PairCreated.Format(time.RFC3339),
			alert.AlertedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			s.log.Error("Failed to write CSV record: ", err)
			return
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to encode response: ", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		s.log.Error("Failed to encode error response: ", err)
	}
}
