// Package geo holds the static State→City lookup table offered by the registration form.
// The table is immutable: callers receive copies of its slices.
package geo

import "github.com/thoas/go-funk"

type entry struct {
	state  string
	cities []string
}

// The names are kept exactly as the stored user records spell them.
var table = []entry{
	{"Maharastra", []string{"Mumbai", "Pune", "Nagpur", "Nashik"}},
	{"Delhi", []string{"New Delhi"}},
	{"Karnataka", []string{"Bengaluru", "Mysuru", "Mangalore"}},
	{"Telangana", []string{"Chennai", "Coimbatore", "Madurai"}},
	{"Gujarat", []string{"Ahmedabad", "Surat", "Vadodara", "Rajkot"}},
	{"Rajastan", []string{"Jaipur", "Udaipur", "Jodhpur"}},
	{"Uttarpradesh", []string{"Lucknow", "Kanpur", "Varanasi"}},
	{"WestBangal", []string{"Kolkata", "Howrah", "Durgapur"}},
	{"Kerla", []string{"Kochi", "Thiruvananthapuram", "Kozhikode"}},
	{"Madhyapradesh", []string{"Bhopal", "Indore", "Jabalpur"}},
}

var byState = func() map[string][]string {
	result := make(map[string][]string, len(table))
	for _, e := range table {
		result[e.state] = e.cities
	}
	return result
}()

// States returns the state names in declaration order.
func States() []string {
	result := make([]string, 0, len(table))
	for _, e := range table {
		result = append(result, e.state)
	}
	return result
}

// Cities returns the cities of the given state in declaration order.
// An unknown or empty state yields an empty list.
func Cities(state string) []string {
	cities, ok := byState[state]
	if !ok {
		return []string{}
	}
	result := make([]string, len(cities))
	copy(result, cities)
	return result
}

// IsState reports whether state is a key of the table.
func IsState(state string) bool {
	_, ok := byState[state]
	return ok
}

// HasCity reports whether city belongs to the list of state.
func HasCity(state, city string) bool {
	cities, ok := byState[state]
	if !ok {
		return false
	}
	return funk.ContainsString(cities, city)
}
