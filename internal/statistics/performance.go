// Package statistics aggregates practice history into performance analytics.
package statistics

import (
	"math"
	"sort"

	"github.com/smartguide/smartguide/internal/history"
)

// TopicStatistics holds per-topic aggregates
type TopicStatistics struct {
	Topic         string  `json:"topic"`
	Sessions      int     `json:"sessions"`
	AverageRating float64 `json:"averageRating"`
	BestRating    int     `json:"bestRating"`
}

// TrendPoint is one day's average rating
type TrendPoint struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	Sessions      int     `json:"sessions"`
	AverageRating float64 `json:"averageRating"`
}

// PerformanceReport holds the analytics shown on the performance and
// analytics pages: totals, per-topic aggregates, and a daily trend.
type PerformanceReport struct {
	TotalSessions  int               `json:"totalSessions"`
	AverageRating  float64           `json:"averageRating"`
	Unrated        int               `json:"unratedSessions"`
	Topics         []TopicStatistics `json:"topics"`
	Trend          []TrendPoint      `json:"trend"`
}

type topicData struct {
	sessions int
	total    int
	best     int
}

type trendData struct {
	sessions int
	total    int
}

// Calculate aggregates history records into a performance report. Records
// with the indeterminate rating 0 are counted as sessions but excluded from
// rating averages.
func Calculate(records []history.Record) PerformanceReport {
	report := PerformanceReport{
		Topics: []TopicStatistics{},
		Trend:  []TrendPoint{},
	}
	report.TotalSessions = len(records)

	topics := make(map[string]*topicData)
	days := make(map[string]*trendData)
	ratedTotal := 0
	ratedCount := 0

	for _, record := range records {
		if record.Rating == 0 {
			continue
		}
		ratedTotal += record.Rating
		ratedCount++

		topic, ok := topics[record.Topic]
		if !ok {
			topic = &topicData{}
			topics[record.Topic] = topic
		}
		topic.sessions++
		topic.total += record.Rating
		if record.Rating > topic.best {
			topic.best = record.Rating
		}

		date := record.CreatedAt.UTC().Format("2006-01-02")
		day, ok := days[date]
		if !ok {
			day = &trendData{}
			days[date] = day
		}
		day.sessions++
		day.total += record.Rating
	}

	if ratedCount > 0 {
		report.AverageRating = roundToTenth(float64(ratedTotal) / float64(ratedCount))
	}
	report.Unrated = report.TotalSessions - ratedCount

	for topic, data := range topics {
		report.Topics = append(report.Topics, TopicStatistics{
			Topic:         topic,
			Sessions:      data.sessions,
			AverageRating: roundToTenth(float64(data.total) / float64(data.sessions)),
			BestRating:    data.best,
		})
	}
	sort.Slice(report.Topics, func(i, j int) bool {
		if report.Topics[i].Sessions != report.Topics[j].Sessions {
			return report.Topics[i].Sessions > report.Topics[j].Sessions
		}
		return report.Topics[i].Topic < report.Topics[j].Topic
	})

	for date, data := range days {
		report.Trend = append(report.Trend, TrendPoint{
			Date:          date,
			Sessions:      data.sessions,
			AverageRating: roundToTenth(float64(data.total) / float64(data.sessions)),
		})
	}
	sort.Slice(report.Trend, func(i, j int) bool {
		return report.Trend[i].Date < report.Trend[j].Date
	})

	return report
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
