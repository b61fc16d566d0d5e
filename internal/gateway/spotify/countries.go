package spotify

// countryNames содержит статическую таблицу код → название страны
var countryNames = map[string]string{
	"US": "United States",
	"GB": "United Kingdom",
	"CA": "Canada",
	"AU": "Australia",
	"DE": "Germany",
	"FR": "France",
	"ES": "Spain",
	"IT": "Italy",
	"BR": "Brazil",
	"MX": "Mexico",
	"AR": "Argentina",
	"CO": "Colombia",
	"CL": "Chile",
	"PE": "Peru",
	"JP": "Japan",
	"KR": "South Korea",
	"IN": "India",
	"SE": "Sweden",
	"NO": "Norway",
}

// CountryName возвращает название страны по ISO-коду.
// Для неизвестного кода возвращается сам код.
func CountryName(countryCode string) string {
	if name, ok := countryNames[countryCode]; ok {
		return name
	}
	return countryCode
}

// DefaultCountries возвращает список стран, обрабатываемых по умолчанию
func DefaultCountries() []string {
	return []string{
		"US", "GB", "CA", "AU", "DE", "FR", "ES", "IT",
		"BR", "MX", "AR", "CO", "CL", "PE", "JP", "KR",
		"IN", "SE", "NO",
	}
}
