package gnews

// Mode는 다섯 가지 조회 방식 중 하나
type Mode int

const (
	ModeTopHeadlines Mode = iota
	ModeKeyword
	ModeTopic
	ModeLocation
	ModeSite
)

func (m Mode) String() string {
	switch m {
	case ModeKeyword:
		return "keyword"
	case ModeTopic:
		return "topic"
	case ModeLocation:
		return "location"
	case ModeSite:
		return "site"
	default:
		return "top"
	}
}

// Query는 조회 방식과 검색어의 묶음. ModeTopHeadlines일 때 Term은 비어 있다.
type Query struct {
	Mode Mode
	Term string
}

func TopHeadlines() Query {
	return Query{Mode: ModeTopHeadlines}
}

func Keyword(k string) Query {
	return Query{Mode: ModeKeyword, Term: k}
}

func Topic(t string) Query {
	return Query{Mode: ModeTopic, Term: t}
}

func Location(l string) Query {
	return Query{Mode: ModeLocation, Term: l}
}

func Site(s string) Query {
	return Query{Mode: ModeSite, Term: s}
}
