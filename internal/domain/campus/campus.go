package campus

import "strings"

type Code string

const (
	Goa       Code = "GOA"
	Hyderabad Code = "HYD"
	Pilani    Code = "PIL"
	Dubai     Code = "DUB"
	Others    Code = "OTH"
	// Gmail only ever appears while normalizing; it is never stored.
	Gmail Code = "GMAIL"

	// All is the feed's "no campus filter" value. It is not a campus.
	All = "ALL"

	institutionDomain = "bits-pilani.ac.in"
)

var labels = map[Code]string{
	Goa:       "Goa",
	Hyderabad: "Hyderabad",
	Pilani:    "Pilani",
	Dubai:     "Dubai",
	Others:    "Others",
	Gmail:     "Gmail",
}

// Real lists the physical campuses in the order tabs and the distance table use.
var Real = []Code{Goa, Hyderabad, Pilani, Dubai}

func (c Code) IsReal() bool {
	for _, code := range Real {
		if c == code {
			return true
		}
	}
	return false
}

func (c Code) Storable() bool {
	return c.IsReal() || c == Others
}

func (c Code) Label() string {
	if label, ok := labels[c]; ok {
		return label
	}
	return string(c)
}

// ParseReal accepts only the four physical campus codes.
func ParseReal(value string) (Code, bool) {
	code := Code(value)
	if code.IsReal() {
		return code, true
	}
	return "", false
}

// Normalize resolves the campus to store for a person. An institutional
// address decides the campus by its subdomain (goa.bits-pilani.ac.in -> GOA);
// otherwise current is kept when it is storable and Others is used when not.
func Normalize(email string, current Code) Code {
	code := current
	email = strings.TrimSpace(email)
	if strings.HasSuffix(email, institutionDomain) {
		if at := strings.LastIndex(email, "@"); at >= 0 {
			host := email[at+1:]
			sub := strings.ToUpper(strings.SplitN(host, ".", 2)[0])
			if len(sub) > 3 {
				sub = sub[:3]
			}
			code = Code(sub)
		}
	}
	if code.Storable() {
		return code
	}
	return Others
}
