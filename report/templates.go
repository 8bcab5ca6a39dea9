package report

import "html/template"

const layout = `{{define "top"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.}}</title></head>
<body>
<h1>{{.}}</h1>
{{end}}
{{define "bottom"}}<p><a href="/players">players</a> | <a href="/games">games</a></p>
</body>
</html>
{{end}}`

const playersPage = `{{template "top" "Players"}}
<table border="1">
<tr><th>Player</th><th>Won</th><th>Tied</th><th>Lost</th></tr>
{{range .}}<tr><td><a href="/games?player={{.Name}}">{{.Name}}</a></td><td>{{.Won}}</td><td>{{.Tied}}</td><td>{{.Lost}}</td></tr>
{{else}}<tr><td colspan="4">No games recorded yet.</td></tr>
{{end}}</table>
{{template "bottom"}}`

const gamesPage = `{{template "top" .Title}}
<table border="1">
<tr><th>Game</th><th>Played</th><th>Player 1</th><th>Score</th><th>Player 2</th><th>Score</th></tr>
{{range .Games}}<tr><td><a href="/game?id={{.ID}}">{{.ID}}</a></td><td>{{.PlayedAt.Format "2006-01-02 15:04:05"}}</td><td><a href="/games?player={{.Player1}}">{{.Player1}}</a></td><td>{{.Score1}}</td><td><a href="/games?player={{.Player2}}">{{.Player2}}</a></td><td>{{.Score2}}</td></tr>
{{else}}<tr><td colspan="6">No games found.</td></tr>
{{end}}</table>
{{template "bottom"}}`

const gamePage = `{{template "top" "Game"}}
<p>Played {{.Game.PlayedAt.Format "2006-01-02 15:04:05"}}, {{.Game.TimeLimit}} seconds.</p>
<table border="1">
{{range .Rows}}<tr>{{range .}}<td>{{printf "%c" .}}</td>{{end}}</tr>
{{end}}</table>
{{range .Players}}<h2><a href="/games?player={{.Name}}">{{.Name}}</a>: {{.Score}}</h2>
<p>Words: {{join .Unique}}</p>
<p>Illegal: {{join .Illegal}}</p>
{{end}}<h2>Shared</h2>
<p>{{join .Shared}}</p>
{{template "bottom"}}`

const errorPage = `{{template "top" "Boggle results"}}
{{if .Message}}<p>{{.Message}}</p>
{{end}}<p>Valid commands:</p>
<ul>
<li><a href="/players">/players</a>: win, tie and loss counts of every player</li>
<li><a href="/games">/games</a>: every game played</li>
<li>/games?player=NAME: the games NAME played</li>
<li>/game?id=ID: board and words of one game</li>
</ul>
{{template "bottom"}}`

func parse(name, body string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(layout + body))
}

var (
	playersTmpl = parse("players", playersPage)
	gamesTmpl   = parse("games", gamesPage)
	gameTmpl    = parse("game", gamePage)
	errorTmpl   = parse("error", errorPage)
)
