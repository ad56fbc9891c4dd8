package geo

// Governorate centroids used when a profile stores a city name instead of
// raw coordinates.
var cityCoordinates = map[string]Point{
	"tunis":       {Latitude: 36.8065, Longitude: 10.1815},
	"ariana":      {Latitude: 36.8665, Longitude: 10.1647},
	"manouba":     {Latitude: 36.8081, Longitude: 10.0982},
	"ben_arous":   {Latitude: 36.7531, Longitude: 10.2189},
	"bizerte":     {Latitude: 37.2744, Longitude: 9.8739},
	"nabeul":      {Latitude: 36.4513, Longitude: 10.7354},
	"zaghouan":    {Latitude: 36.4023, Longitude: 10.1425},
	"beja":        {Latitude: 36.7333, Longitude: 9.1833},
	"jendouba":    {Latitude: 36.5011, Longitude: 8.7802},
	"kef":         {Latitude: 36.1829, Longitude: 8.7145},
	"siliana":     {Latitude: 36.0881, Longitude: 9.3708},
	"sousse":      {Latitude: 35.8256, Longitude: 10.6084},
	"mahdia":      {Latitude: 35.5047, Longitude: 11.0622},
	"monastir":    {Latitude: 35.7776, Longitude: 10.8262},
	"kairouan":    {Latitude: 35.6781, Longitude: 10.0963},
	"sfax":        {Latitude: 34.7406, Longitude: 10.7603},
	"gabes":       {Latitude: 33.8818, Longitude: 10.0982},
	"medenine":    {Latitude: 33.3549, Longitude: 10.5055},
	"tataouine":   {Latitude: 32.9297, Longitude: 10.4518},
	"gafsa":       {Latitude: 34.4250, Longitude: 8.7842},
	"tozeur":      {Latitude: 33.9197, Longitude: 8.1335},
	"kebili":      {Latitude: 33.7044, Longitude: 8.9690},
	"kasserine":   {Latitude: 35.1676, Longitude: 8.8365},
	"sidi_bouzid": {Latitude: 35.0382, Longitude: 9.4850},
}
