package tools

// AirlineDirectory resolves IATA carrier codes to display names.
type AirlineDirectory map[string]string

// Name returns the display name for code, or the code itself when unmapped.
func (d AirlineDirectory) Name(code string) string {
	if name, ok := d[code]; ok {
		return name
	}
	return code
}

// DefaultAirlines returns the built-in directory of common carriers.
func DefaultAirlines() AirlineDirectory {
	return AirlineDirectory{
		"AA": "American Airlines",
		"DL": "Delta Air Lines",
		"UA": "United Airlines",
		"BA": "British Airways",
		"AF": "Air France",
		"LH": "Lufthansa",
		"EK": "Emirates",
		"QR": "Qatar Airways",
		"TK": "Turkish Airlines",
		"SQ": "Singapore Airlines",
		"CX": "Cathay Pacific",
		"QF": "Qantas",
		"AC": "Air Canada",
		"NH": "All Nippon Airways",
		"JL": "Japan Airlines",
		"KL": "KLM Royal Dutch Airlines",
		"IB": "Iberia",
		"AZ": "ITA Airways",
		"LX": "Swiss International Air Lines",
		"OS": "Austrian Airlines",
		"SK": "SAS Scandinavian Airlines",
		"AY": "Finnair",
		"EI": "Aer Lingus",
		"TP": "TAP Air Portugal",
		"AT": "Royal Air Maroc",
		"MS": "EgyptAir",
		"ET": "Ethiopian Airlines",
		"SA": "South African Airways",
		"KE": "Korean Air",
		"OZ": "Asiana Airlines",
		"CA": "Air China",
		"MU": "China Eastern Airlines",
		"CZ": "China Southern Airlines",
		"TG": "Thai Airways",
		"VN": "Vietnam Airlines",
		"GA": "Garuda Indonesia",
		"PR": "Philippine Airlines",
		"MH": "Malaysia Airlines",
		"BR": "EVA Air",
		"CI": "China Airlines",
		"AI": "Air India",
		"9W": "Jet Airways",
		"6E": "IndiGo",
		"SV": "Saudi Arabian Airlines",
		"GF": "Gulf Air",
		"WY": "Oman Air",
		"RJ": "Royal Jordanian",
		"LA": "LATAM Airlines",
		"AM": "Aeroméxico",
		"AR": "Aerolíneas Argentinas",
		"CM": "Copa Airlines",
		"AV": "Avianca",
		"VY": "Vueling",
		"U2": "easyJet",
		"FR": "Ryanair",
		"W6": "Wizz Air",
		"NK": "Spirit Airlines",
		"F9": "Frontier Airlines",
		"B6": "JetBlue Airways",
		"WN": "Southwest Airlines",
		"AS": "Alaska Airlines",
	}
}
