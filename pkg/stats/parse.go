package stats

import (
	"math"
	"strconv"
	"strings"

	"exchange-backend/internal/models"
)

// parseSupplyHash converts one supply's flat Redis hash into a typed
// record. Unknown fields are skipped so the reader tolerates future
// additions to the hash layout.
func parseSupplyHash(fields map[string]string) *models.SupplyStatistics {
	record := models.NewSupplyStatistics()

	for field, value := range fields {
		switch {
		case field == fieldTotalReqs:
			record.TotalRequests = parseInt(value)

		case strings.HasPrefix(field, countryPrefix):
			country := strings.TrimPrefix(field, countryPrefix)
			record.RequestsByCountry[country] = parseInt(value)

		case strings.HasPrefix(field, bidderPrefix):
			// bidder:<id>:<metric>
			rest := strings.TrimPrefix(field, bidderPrefix)
			idx := strings.LastIndex(rest, ":")
			if idx <= 0 {
				continue
			}
			bidderID, metric := rest[:idx], rest[idx+1:]
			b := record.Bidder(bidderID)

			switch metric {
			case "wins":
				b.Wins = parseInt(value)
			case "revenue":
				b.TotalRevenue = roundCents(parseFloat(value))
			case "no_bids":
				b.NoBids = parseInt(value)
			case "timeouts":
				b.Timeouts = parseInt(value)
			}
		}
	}

	return record
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func roundCents(f float64) float64 {
	return math.Round(f*100) / 100
}
