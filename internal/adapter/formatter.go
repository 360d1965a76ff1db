package adapter

import (
	"fmt"
	"strings"

	"github.com/avdeev/channel-scout-go/internal/constants"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"github.com/avdeev/channel-scout-go/internal/util"
)

// ResponseFormatter formats bot responses
type ResponseFormatter struct {
	prefix string
}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter(prefix string) *ResponseFormatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "/"
	}
	return &ResponseFormatter{prefix: prefix}
}

// FormatSearchResult formats a finished discovery run into a chat message.
// Only the top entries are shown; the full list goes through the CSV export.
func (f *ResponseFormatter) FormatSearchResult(result *domain.SearchResult) string {
	if result == nil {
		return f.FormatError("внутренняя ошибка: пустой результат")
	}
	if !result.Success {
		return f.FormatError(result.Error)
	}

	var sb strings.Builder

	for _, processed := range result.ProcessedChannels {
		if processed.Found {
			sb.WriteString(fmt.Sprintf("📡 @%s — %s (%s подписчиков), похожих: %d\n",
				processed.Handle,
				f.truncateTitle(processed.Title),
				formatCount(processed.ParticipantsCount),
				processed.SimilarFound,
			))
		} else {
			sb.WriteString(fmt.Sprintf("⚠️ @%s — %s\n", processed.Handle, processed.Error))
		}
	}

	if len(result.Candidates) == 0 {
		sb.WriteString(fmt.Sprintf("\n😔 Похожие каналы с аудиторией от %s не найдены.",
			formatCount(result.MinSubscribers)))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\n🔍 Найдено %d похожих каналов (качество %.2f)\n\n",
		len(result.Candidates), result.QualityScore))

	shown := len(result.Candidates)
	if shown > constants.DisplayConfig.MaxResultsShown {
		shown = constants.DisplayConfig.MaxResultsShown
	}

	for i := 0; i < shown; i++ {
		candidate := result.Candidates[i]
		profile := candidate.Profile

		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, f.truncateTitle(profile.DisplayTitle())))
		if link := profile.Link(); link != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", link))
		}
		sb.WriteString(fmt.Sprintf("   👥 %s | ⭐ %.2f | %s\n",
			formatCount(candidate.ParticipantsCount),
			candidate.SimilarityScore,
			strings.Join(candidate.Methods, ", "),
		))
	}

	if len(result.Candidates) > shown {
		sb.WriteString(fmt.Sprintf("\n…и ещё %d. Полный список: %sэкспорт",
			len(result.Candidates)-shown, f.prefix))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatStats formats engine performance counters
func (f *ResponseFormatter) FormatStats(metrics domain.PerformanceMetrics) string {
	var sb strings.Builder
	sb.WriteString("📊 Статистика поиска\n\n")
	sb.WriteString(fmt.Sprintf("Всего запросов: %d\n", metrics.TotalSearches))
	sb.WriteString(fmt.Sprintf("Успешных: %d\n", metrics.SuccessfulSearches))
	sb.WriteString(fmt.Sprintf("Неудачных: %d\n", metrics.FailedSearches))
	sb.WriteString(fmt.Sprintf("Среднее число находок: %.1f\n", metrics.AvgResultCount))
	sb.WriteString(fmt.Sprintf("Кэш: %d попаданий / %d промахов (%.0f%%)",
		metrics.CacheHits, metrics.CacheMisses, metrics.CacheHitRate()*100))
	return sb.String()
}

// FormatHistory formats the latest searches of a chat, newest first
func (f *ResponseFormatter) FormatHistory(entries []domain.SearchLogEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("🗒 История пуста, начните с команды %sнайти.", f.prefix)
	}

	var sb strings.Builder
	sb.WriteString("🗒 Последние поиски\n\n")
	for i, entry := range entries {
		status := "✅"
		if !entry.Success {
			status = "⚠️"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s — находок: %d, качество %.2f\n",
			i+1, status, f.truncateTitle(entry.Query), entry.ResultCount, entry.QualityScore))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatExportCaption formats the message accompanying a CSV document
func (f *ResponseFormatter) FormatExportCaption(count int) string {
	return fmt.Sprintf("📎 Экспорт готов: %d каналов.", count)
}

// FormatHelp formats help message
func (f *ResponseFormatter) FormatHelp() string {
	p := f.prefix
	return fmt.Sprintf(`🔭 Поиск похожих Telegram-каналов

🔍 Поиск
  %sнайти [ссылки или @упоминания] - найти похожие каналы
  Можно просто прислать сообщение со ссылками вида t.me/канал

📎 Экспорт
  %sэкспорт - выгрузить последний результат в CSV

📊 Служебные
  %sстатистика - счётчики работы движка
  %sистория - последние поиски в этом чате
  %sпомощь - это сообщение

Учитываются каналы с аудиторией от 1000 подписчиков.`, p, p, p, p, p)
}

// FormatError formats error message
func (f *ResponseFormatter) FormatError(message string) string {
	return fmt.Sprintf("❌ %s", message)
}

// truncateTitle truncates a title to the display limit
func (f *ResponseFormatter) truncateTitle(title string) string {
	return util.TruncateString(title, constants.DisplayConfig.TitleLimit)
}

// formatCount renders large participant counts with space-grouped digits.
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
