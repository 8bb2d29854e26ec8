package extract

import "regexp"

// canonicalPhrases maps common spoken expense words to the label we want to
// show. Order matters: the first entry found in the description wins.
var canonicalPhrases = []struct {
	keyword string
	label   string
}{
	{"coffee", "Coffee"},
	{"tea", "Tea"},
	{"pizza", "Pizza"},
	{"burger", "Burger"},
	{"breakfast", "Breakfast"},
	{"lunch", "Lunch"},
	{"dinner", "Dinner"},
	{"snack", "Snacks"},
	{"groceries", "Groceries"},
	{"grocery", "Groceries"},
	{"vegetable", "Vegetables"},
	{"fruit", "Fruits"},
	{"milk", "Milk"},
	{"uber", "Uber Ride"},
	{"ola", "Ola Ride"},
	{"taxi", "Taxi"},
	{"cab", "Cab Ride"},
	{"bus", "Bus Fare"},
	{"train", "Train Ticket"},
	{"metro", "Metro Fare"},
	{"flight", "Flight Ticket"},
	{"petrol", "Petrol"},
	{"diesel", "Diesel"},
	{"fuel", "Fuel"},
	{"parking", "Parking"},
	{"electricity", "Electricity Bill"},
	{"water bill", "Water Bill"},
	{"internet", "Internet Bill"},
	{"wifi", "Internet Bill"},
	{"recharge", "Mobile Recharge"},
	{"rent", "Rent"},
	{"movie", "Movie Tickets"},
	{"netflix", "Netflix Subscription"},
	{"spotify", "Spotify Subscription"},
	{"gym", "Gym Membership"},
	{"medicine", "Medicine"},
	{"doctor", "Doctor Visit"},
	{"haircut", "Haircut"},
	{"salary", "Salary"},
}

// canonicalMatchers holds one word-boundary pattern per canonicalPhrases entry,
// allowing a plural suffix so "snacks" and "movies" still match.
var canonicalMatchers = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(canonicalPhrases))
	for i, p := range canonicalPhrases {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p.keyword) + `(?:s|es)?\b`)
	}
	return out
}()

// canonicalLabel returns the label of the first table entry found in the
// lower-cased description.
func canonicalLabel(lower string) (string, bool) {
	for i, re := range canonicalMatchers {
		if re.MatchString(lower) {
			return canonicalPhrases[i].label, true
		}
	}
	return "", false
}
