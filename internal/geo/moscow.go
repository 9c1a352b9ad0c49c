package geo

// MoscowMetro lists the Moscow metro stations offered by the client's
// station picker, with approximate platform coordinates.
var MoscowMetro = []Station{
	{Name: "Сокольники", Latin: "Sokolniki", Point: Point{55.7894, 37.6795}},
	{Name: "Красносельская", Latin: "Krasnoselskaya", Point: Point{55.7800, 37.6663}},
	{Name: "Комсомольская", Latin: "Komsomolskaya", Point: Point{55.7752, 37.6556}},
	{Name: "Красные ворота", Latin: "Krasnye Vorota", Point: Point{55.7690, 37.6484}},
	{Name: "Чистые пруды", Latin: "Chistye Prudy", Point: Point{55.7650, 37.6386}},
	{Name: "Лубянка", Latin: "Lubyanka", Point: Point{55.7597, 37.6270}},
	{Name: "Охотный ряд", Latin: "Okhotny Ryad", Point: Point{55.7571, 37.6155}},
	{Name: "Библиотека им. Ленина", Latin: "Biblioteka imeni Lenina", Point: Point{55.7518, 37.6098}},
	{Name: "Кропоткинская", Latin: "Kropotkinskaya", Point: Point{55.7453, 37.6036}},
	{Name: "Парк культуры", Latin: "Park Kultury", Point: Point{55.7351, 37.5934}},
	{Name: "Фрунзенская", Latin: "Frunzenskaya", Point: Point{55.7273, 37.5802}},
	{Name: "Спортивная", Latin: "Sportivnaya", Point: Point{55.7226, 37.5620}},
	{Name: "Воробьевы горы", Latin: "Vorobyovy Gory", Point: Point{55.7102, 37.5591}},
	{Name: "Университет", Latin: "Universitet", Point: Point{55.6925, 37.5345}},
	{Name: "Проспект Вернадского", Latin: "Prospekt Vernadskogo", Point: Point{55.6764, 37.5054}},
	{Name: "Юго-Западная", Latin: "Yugo-Zapadnaya", Point: Point{55.6636, 37.4832}},
	{Name: "Тропарево", Latin: "Troparyovo", Point: Point{55.6459, 37.4725}},
	{Name: "Румянцево", Latin: "Rumyantsevo", Point: Point{55.6331, 37.4419}},
	{Name: "Саларьево", Latin: "Salaryevo", Point: Point{55.6227, 37.4240}},
	{Name: "Бульвар Дмитрия Донского", Latin: "Bulvar Dmitriya Donskogo", Point: Point{55.5690, 37.5766}},
	{Name: "Речной вокзал", Latin: "Rechnoy Vokzal", Point: Point{55.8549, 37.4762}},
	{Name: "Водный стадион", Latin: "Vodny Stadion", Point: Point{55.8399, 37.4867}},
	{Name: "Войковская", Latin: "Voykovskaya", Point: Point{55.8189, 37.4977}},
	{Name: "Сокол", Latin: "Sokol", Point: Point{55.8054, 37.5152}},
	{Name: "Аэропорт", Latin: "Aeroport", Point: Point{55.8004, 37.5330}},
	{Name: "Белорусская", Latin: "Belorusskaya", Point: Point{55.7772, 37.5822}},
	{Name: "Маяковская", Latin: "Mayakovskaya", Point: Point{55.7699, 37.5965}},
	{Name: "Тверская", Latin: "Tverskaya", Point: Point{55.7650, 37.6044}},
	{Name: "Театральная", Latin: "Teatralnaya", Point: Point{55.7578, 37.6188}},
	{Name: "Новокузнецкая", Latin: "Novokuznetskaya", Point: Point{55.7421, 37.6292}},
	{Name: "Павелецкая", Latin: "Paveletskaya", Point: Point{55.7297, 37.6387}},
	{Name: "Автозаводская", Latin: "Avtozavodskaya", Point: Point{55.7069, 37.6578}},
	{Name: "Технопарк", Latin: "Tekhnopark", Point: Point{55.6951, 37.6640}},
	{Name: "Коломенская", Latin: "Kolomenskaya", Point: Point{55.6773, 37.6637}},
	{Name: "Каширская", Latin: "Kashirskaya", Point: Point{55.6550, 37.6489}},
	{Name: "Кантемировская", Latin: "Kantemirovskaya", Point: Point{55.6361, 37.6563}},
	{Name: "Царицыно", Latin: "Tsaritsyno", Point: Point{55.6210, 37.6693}},
	{Name: "Орехово", Latin: "Orekhovo", Point: Point{55.6128, 37.6952}},
	{Name: "Домодедовская", Latin: "Domodedovskaya", Point: Point{55.6102, 37.7172}},
	{Name: "Красногвардейская", Latin: "Krasnogvardeyskaya", Point: Point{55.6138, 37.7446}},
	{Name: "Алма-Атинская", Latin: "Alma-Atinskaya", Point: Point{55.6335, 37.7656}},
	{Name: "Новокосино", Latin: "Novokosino", Point: Point{55.7451, 37.8642}},
	{Name: "Новогиреево", Latin: "Novogireyevo", Point: Point{55.7521, 37.8147}},
	{Name: "Перово", Latin: "Perovo", Point: Point{55.7510, 37.7867}},
	{Name: "Шоссе Энтузиастов", Latin: "Shosse Entuziastov", Point: Point{55.7580, 37.7517}},
	{Name: "Авиамоторная", Latin: "Aviamotornaya", Point: Point{55.7518, 37.7166}},
	{Name: "Площадь Ильича", Latin: "Ploshchad Ilyicha", Point: Point{55.7472, 37.6809}},
	{Name: "Марксистская", Latin: "Marksistskaya", Point: Point{55.7408, 37.6563}},
	{Name: "Третьяковская", Latin: "Tretyakovskaya", Point: Point{55.7409, 37.6262}},
	{Name: "Октябрьская", Latin: "Oktyabrskaya", Point: Point{55.7293, 37.6112}},
	{Name: "Киевская", Latin: "Kiyevskaya", Point: Point{55.7431, 37.5650}},
	{Name: "Смоленская", Latin: "Smolenskaya", Point: Point{55.7494, 37.5822}},
	{Name: "Арбатская", Latin: "Arbatskaya", Point: Point{55.7520, 37.6035}},
	{Name: "Александровский сад", Latin: "Aleksandrovsky Sad", Point: Point{55.7522, 37.6087}},
}

// DefaultStations returns the built-in Moscow metro directory
func DefaultStations() *StaticStations {
	return NewStaticStations(MoscowMetro)
}
