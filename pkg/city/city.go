package city

type City struct {
	Id   int64
	Name string
}
