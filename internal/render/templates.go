package render

// articleTemplate mirrors the look of the legacy site: a single serif column
// with a ruled header and a date line under the title.
const articleTemplate = `<!DOCTYPE html>
<html lang="nl">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - {{.SiteTitle}}</title>
    <style>
        body {
            font-family: Georgia, serif;
            line-height: 1.6;
            max-width: 700px;
            margin: 0 auto;
            padding: 20px;
            background: #f9f9f9;
            color: #333;
        }
        header {
            border-bottom: 3px solid #000;
            padding-bottom: 10px;
            margin-bottom: 30px;
        }
        h1 {
            font-size: 2em;
            margin-bottom: 5px;
        }
        .date {
            color: #666;
            font-style: italic;
        }
        article p:first-of-type::first-letter {
            font-size: 3em;
            float: left;
            line-height: 1;
            margin-right: 8px;
        }
        .images {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(200px, 1fr));
            gap: 15px;
            margin: 30px 0;
        }
        .images img {
            width: 100%;
            height: auto;
            border: 1px solid #ddd;
        }
        .links, .attachments {
            margin-top: 30px;
            padding-top: 15px;
            border-top: 1px solid #ccc;
        }
        .links h3, .attachments h3 {
            font-size: 1.1em;
        }
        footer {
            margin-top: 40px;
            padding-top: 15px;
            border-top: 3px solid #000;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <header>
        <h1>{{.Title}}</h1>
        <p class="date">{{.Date}} - {{.SiteTitle}}</p>
    </header>
    <article>
{{range .Paragraphs}}        <p>{{.}}</p>

{{end}}{{if .Images}}        <div class="images">
{{range .Images}}            <img src="{{.}}" alt="Project afbeelding" loading="lazy">
{{end}}        </div>

{{end}}{{if .Links}}        <div class="links">
            <h3>Gerelateerde links</h3>
            <ul>
{{range .Links}}                <li><a href="{{.URL}}" target="_blank">{{.Text}}</a></li>
{{end}}            </ul>
        </div>

{{end}}{{if .Attachments}}        <div class="attachments">
            <h3>Bestanden</h3>
            <ul>
{{range .Attachments}}                <li><a href="{{.URL}}">{{.Text}}</a></li>
{{end}}            </ul>
        </div>

{{end}}    </article>
    <footer>
        <p><a href="{{.IndexFile}}">&larr; Terug naar het archief</a></p>
    </footer>
</body>
</html>
`

// indexTemplate lists every archived article grouped by year, newest first.
const indexTemplate = `<!DOCTYPE html>
<html lang="nl">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.SiteTitle}} - Archief</title>
    <style>
        body {
            font-family: Georgia, serif;
            line-height: 1.6;
            max-width: 700px;
            margin: 0 auto;
            padding: 20px;
            background: #f9f9f9;
            color: #333;
        }
        header {
            border-bottom: 3px solid #000;
            padding-bottom: 10px;
            margin-bottom: 30px;
        }
        .count {
            color: #666;
            font-style: italic;
        }
        h2 {
            font-size: 1.4em;
            margin-top: 30px;
            border-bottom: 1px solid #ccc;
            padding-bottom: 5px;
        }
        ul {
            list-style: none;
            padding: 0;
        }
        li {
            margin: 8px 0;
        }
        .entry-date {
            color: #666;
            font-size: 0.9em;
            margin-right: 10px;
        }
        .entry-meta {
            color: #999;
            font-size: 0.85em;
        }
        footer {
            margin-top: 40px;
            padding-top: 15px;
            border-top: 3px solid #000;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <header>
        <h1>{{.SiteTitle}}</h1>
        <p class="count">{{.Count}} gearchiveerde artikelen</p>
    </header>
    <main>
{{range .Years}}        <h2>{{.Year}}</h2>
        <ul>
{{range .Entries}}            <li><span class="entry-date">{{.Date}}</span><a href="{{.Filename}}">{{.Title}}</a> <span class="entry-meta">({{.Paragraphs}} alinea's)</span></li>
{{end}}        </ul>
{{end}}    </main>
    <footer>
        <p>Statisch archief van mechanicape.nl</p>
    </footer>
</body>
</html>
`
