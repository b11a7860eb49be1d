package checkout

// Static Philippine location lists used for delivery validation. There is
// no remote address validation.

// Provinces returns the selectable provinces.
func Provinces() []string {
	provinces := make([]string, len(philippineProvinces))
	copy(provinces, philippineProvinces)
	return provinces
}

// CitiesFor returns the selectable cities of a province.
func CitiesFor(province string) []string {
	cities, ok := citiesByProvince[province]
	if !ok {
		return nil
	}
	out := make([]string, len(cities))
	copy(out, cities)
	return out
}

var philippineProvinces = []string{
	"Metro Manila",
	"Cebu",
	"Davao del Sur",
	"Pangasinan",
	"Laguna",
	"Cavite",
	"Bulacan",
	"Rizal",
	"Batangas",
	"Pampanga",
}

var citiesByProvince = map[string][]string{
	"Metro Manila":  {"Quezon City", "Manila", "Makati", "Pasig", "Taguig", "Parañaque", "Las Piñas"},
	"Cebu":          {"Cebu City", "Mandaue", "Lapu-Lapu City", "Talisay", "Danao"},
	"Davao del Sur": {"Davao City", "Digos", "Panabo", "Tagum", "Samal"},
	"Pangasinan":    {"Dagupan", "Lingayen", "Alaminos", "San Carlos", "Urdaneta"},
	"Laguna":        {"Santa Rosa", "Calamba", "San Pablo", "Biñan", "Cabuyao"},
	"Cavite":        {"Bacoor", "Dasmariñas", "Imus", "Cavite City", "Tagaytay"},
	"Bulacan":       {"Malolos", "Meycauayan", "San Jose del Monte", "Marilao"},
	"Rizal":         {"Antipolo", "Cainta", "Taytay", "Binangonan", "Rodriguez"},
	"Batangas":      {"Batangas City", "Lipa", "Tanauan", "Santo Tomas"},
	"Pampanga":      {"San Fernando", "Angeles City", "Mabalacat", "Mexico"},
}
