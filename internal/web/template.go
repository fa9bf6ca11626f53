package web

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Factsheet QA</title>
<style>
body { font-family: sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; }
textarea, input[type=text] { width: 100%; box-sizing: border-box; }
.turn-user { color: #234; }
.turn-assistant { color: #274; }
.passage { background: #f5f5f5; padding: .5rem; margin: .25rem 0; font-size: .9rem; }
.error { color: #a22; }
details { margin-top: 2rem; }
</style>
</head>
<body>
<h1>Factsheet QA</h1>

<form method="POST" action="/ask">
<p><label>Session ID<br><input type="text" name="session_id" value="{{.SessionID}}"></label></p>
<p><label>Your question:<br><input type="text" name="question" autofocus></label></p>
<p><button type="submit">Ask</button></p>
</form>

{{if .Error}}<p class="error">{{.Error}}</p>{{end}}

{{with .Answer}}
<h2>Assistant</h2>
<p>{{.Text}}</p>
<p><small>standalone question: {{.StandaloneQuestion}}</small></p>

{{if .Passages}}
<h3>Retrieved context</h3>
{{range .Passages}}
<div class="passage">{{.Content}}<br><small>{{.Source}}{{if .Section}}, {{.Section}}{{end}} ({{printf "%.3f" .Similarity}})</small></div>
{{end}}
{{end}}

<h3>Chat history</h3>
<ol>
{{range .Transcript}}
<li class="turn-{{.Role}}"><b>{{.Role}}:</b> {{.Text}}</li>
{{end}}
</ol>
{{end}}

<details>
<summary>All sessions</summary>
{{range $id, $turns := .Sessions}}
<h4>{{$id}}</h4>
<ol>
{{range $turns}}
<li class="turn-{{.Role}}"><b>{{.Role}}:</b> {{.Text}}</li>
{{end}}
</ol>
{{end}}
</details>
</body>
</html>
`
