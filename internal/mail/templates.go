package mail

import "html/template"

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<html><body style="font-family: Arial, sans-serif;">
<h2>Welcome to EchoBoard, {{.Name}}!</h2>
<p>Your account is ready. Create a project, invite your team and start tracking tasks.</p>
<p><a href="{{.LoginURL}}">Sign in</a></p>
</body></html>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<html><body style="font-family: Arial, sans-serif;">
<h2>Password reset</h2>
<p>Someone asked to reset the password of this EchoBoard account. The link below is valid for 2 hours.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p style="color: #888; font-size: 12px;">If it was not you, ignore this email.</p>
</body></html>`))
