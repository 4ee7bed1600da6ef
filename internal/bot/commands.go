package bot

// Command constants for Telegram bot commands.
const (
	CommandStart = "/start"
	CommandHelp  = "/help"
)

// Route labels used in logs and metrics.
const (
	RouteStart          = "start"
	RouteHelp           = "help"
	RoutePlace          = "place"
	RouteCurrentWeather = "current_weather"
	RouteForecast       = "forecast"
	RouteDate           = "date"
	RouteUnmatched      = "unmatched"
)
