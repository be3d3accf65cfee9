package catalog

// tagMap maps resolved category names to their bulletin short codes.
// Keys are whitespace-normalized. Categories absent from the map get an
// empty tag, including the language sub-categories produced by the
// Modern Languages override.
var tagMap = map[string]string{
	// CAS
	"Anthropology":                       "ANTH",
	"Art and Art History":                "ARTH",
	"Biology":                            "BIOL",
	"Chemistry and Biochemistry":         "CHEM",
	"Child Studies":                      "CHST",
	"Classics":                           "CLAS",
	"Communication":                      "COMM",
	"Economics":                          "ECON",
	"English":                            "ENGL",
	"Environmental Studies and Sciences": "ENVS",
	"Ethnic Studies":                     "ETHN",
	"History":                            "HIST",
	"Mathematics":                        "MATH",
	"Computer Science":                   "CSCI",
	"Music":                              "MUSC",
	"Neuroscience":                       "NEUR",
	"Philosophy":                         "PHIL",
	"Physics":                            "PHYS",
	"Political Science":                  "POLI",
	"Psychology":                         "PSYC",
	"Public Health Department":           "PHSC",
	"Religious Studies":                  "TESP",
	"Sociology":                          "SOCI",
	"Theatre":                            "THTR",
	"Dance":                              "DANC",
	"Womens and Gender Studies":          "WGST",
	"Gender and Sexuality Studies":       "WGST",
	"Asian Studies":                      "ASIA",
	"Catholic Studies":                   "ASCI",

	// LSB
	"Management":                      "MGMT",
	"Marketing":                       "MKTG",
	"Information Systems & Analytics": "OMIS",
	"Accounting":                      "ACTG",
	"Finance":                         "FNCE",

	// SOE
	"Applied Mathematics":                               "AMTH",
	"Bioengineering":                                    "BIOE",
	"Civil, Environmental, and Sustainable Engineering": "CENG",
	"Computer Science and Engineering":                  "CSEN",
	"Electrical and Computer Engineering":               "ECEN",
	"General Engineering":                               "ENGR",
	"Mechanical Engineering":                            "MECH",
}

// TagFor returns the short code for a category, or "" when unmapped.
func TagFor(category string) string {
	return tagMap[collapseSpaces(category)]
}
