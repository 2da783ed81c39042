package tripadvisor

import "net/http"

const DefaultBaseURL = "https://www.tripadvisor.com"

// pageHeaders is the plain browser header set used for hotel and review pages.
var pageHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"Accept-Language": "en-US,en;q=0.9",
}

// browserHeaders mimics Chrome on Windows; used by the typeahead and search clients.
var browserHeaders = map[string]string{
	"accept":                      "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
	"accept-language":             "en-US,en;q=0.9,en-IN;q=0.8",
	"cache-control":               "max-age=0",
	"priority":                    "u=0, i",
	"sec-ch-device-memory":        "8",
	"sec-ch-ua":                   `"Chromium";v="128", "Not;A=Brand";v="24", "Microsoft Edge";v="128"`,
	"sec-ch-ua-arch":              `"x86"`,
	"sec-ch-ua-full-version-list": `"Chromium";v="128.0.6613.27", "Not;A=Brand";v="24.0.0.0", "Microsoft Edge";v="128.0.2739.22"`,
	"sec-ch-ua-mobile":            "?0",
	"sec-ch-ua-model":             `""`,
	"sec-ch-ua-platform":          `"Windows"`,
	"sec-fetch-dest":              "document",
	"sec-fetch-mode":              "navigate",
	"sec-fetch-site":              "same-origin",
	"sec-fetch-user":              "?1",
	"upgrade-insecure-requests":   "1",
	"user-agent":                  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36 Edg/128.0.0.0",
}

var sessionCookies = []*http.Cookie{
	{Name: "TASameSite", Value: "1"},
	{Name: "TAUnique", Value: "%1%enc%3AS2VcckoBMpjkWWE0EOYFXwpeYGtm89yjVCeQrfyOvOjuSk%2FeFO0ovn5aojuWt%2F0ZNox8JbUSTxk%3D"},
	{Name: "TASSK", Value: "enc%3AADgp9hPB2EZH%2BG%2FrGuviR%2Fz0M2tI26%2Bka189fC2uttEXwRtO7D7itb6MVmBRjyeKGdZKlS99%2FrM9Atb%2B%2B6O10u8OqOH6gsbaISOcYnUu5PSF4dGFptO9uxrXWnb3F1YgKQ%3D%3D"},
	{Name: "TATrkConsent", Value: "eyJvdXQiOiJTT0NJQUxfTUVESUEiLCJpbiI6IkFEVixBTkEsRlVOQ1RJT05BTCJ9"},
	{Name: "TASID", Value: "CEA13F869BBD11312FB1D0F50296976D"},
	{Name: "SRT", Value: "TART_SYNC"},
	{Name: "ServerPool", Value: "C"},
	{Name: "TATravelInfo", Value: "V2*A.2*MG.-1*HP.2*FL.3*RS.1"},
	{Name: "PMC", Value: "V2*MS.16*MD.20240817*LD.20240817"},
	{Name: "G_AUTH2_MIGRATION", Value: "informational"},
}

func copyHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
